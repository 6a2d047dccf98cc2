package service

import (
	"time"

	"github.com/baramej/library-system/library/internal/model"
	"github.com/baramej/library-system/library/internal/notify"
	"github.com/baramej/library-system/library/internal/repository"
	"go.uber.org/zap"
)

type Service struct {
	log    *zap.Logger
	repo   repository.Repository
	sender notify.Sender
	now    func() time.Time
}

type Option func(*Service)

// WithNow overrides the clock; every operation derives "today" from it.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo repository.Repository, sender notify.Sender, log *zap.Logger, ops ...Option) *Service {
	s := &Service{
		log:    log,
		repo:   repo,
		sender: sender,
		now:    time.Now,
	}
	for _, op := range ops {
		op(s)
	}
	return s
}

func (s *Service) today() model.Date {
	return model.DateOf(s.now().UTC())
}
