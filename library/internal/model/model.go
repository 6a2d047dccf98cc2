package model

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type Author struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Category struct {
	ID          int    `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}

type Publisher struct {
	ID      int    `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Address string `json:"address" db:"address"`
}

type Location struct {
	ID      int    `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Code    string `json:"code" db:"code"`
	Address string `json:"address" db:"address"`
}

type Staff struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Role string `json:"role" db:"role"`
}

type Event struct {
	ID          int    `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	EventDate   Date   `json:"eventDate" db:"event_date"`
	Description string `json:"description" db:"description"`
	Location    string `json:"location" db:"location"`
	OrganizerID *int   `json:"organizerId" db:"organizer_id"`
	BookID      *int   `json:"bookId" db:"book_id"`
}

type Book struct {
	ID              int      `json:"-" db:"id"`
	BookUid         string   `json:"bookUid" db:"book_uid"`
	Name            string   `json:"name" db:"name"`
	Barcode         string   `json:"barcode" db:"barcode"`
	ISBN            string   `json:"isbn" db:"isbn"`
	AuthorID        int      `json:"-" db:"author_id"`
	Author          string   `json:"author" db:"author"`
	CategoryID      *int     `json:"-" db:"category_id"`
	PublisherID     *int     `json:"-" db:"publisher_id"`
	LocationID      *int     `json:"-" db:"location_id"`
	PublicationDate NullDate `json:"publicationDate" db:"publication_date"`
	Pages           int      `json:"pages" db:"pages"`
	Language        string   `json:"language" db:"language"`
	AvailableCopies int      `json:"availableCopies" db:"available_copies"`
	ActiveLoanCount int      `json:"activeLoanCount" db:"active_loan_count"`

	// derived, see ComputeDerived
	TotalCopies int  `json:"totalCopies" db:"-"`
	IsAvailable bool `json:"isAvailable" db:"-"`
}

// ComputeDerived fills the availability fields from committed state:
// total_copies = available_copies + count(loans in borrowed/overdue).
func (b *Book) ComputeDerived() {
	b.TotalCopies = b.AvailableCopies + b.ActiveLoanCount
	b.IsAvailable = b.AvailableCopies > 0
}

type ListBooks struct {
	Paging
	Items []Book `json:"items"`
}

type CreateBookRequest struct {
	Name            string   `json:"name" validate:"required"`
	Barcode         string   `json:"barcode"`
	ISBN            string   `json:"isbn"`
	AuthorID        int      `json:"authorId" validate:"required"`
	CategoryID      *int     `json:"categoryId"`
	PublisherID     *int     `json:"publisherId"`
	LocationID      *int     `json:"locationId"`
	PublicationDate NullDate `json:"publicationDate"`
	Pages           int      `json:"pages"`
	Language        string   `json:"language"`
	AvailableCopies int      `json:"availableCopies" validate:"gte=0"`
}
