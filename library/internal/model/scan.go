package model

type ScanOperation string

const (
	ScanAuto   ScanOperation = "auto"
	ScanBorrow ScanOperation = "borrow"
	ScanReturn ScanOperation = "return"
)

type ScanRequest struct {
	MemberBarcode string        `json:"memberBarcode" validate:"required"`
	BookBarcode   string        `json:"bookBarcode" validate:"required"`
	Operation     ScanOperation `json:"operation" validate:"omitempty,oneof=auto borrow return"`
}

type ScanResult struct {
	Operation ScanOperation `json:"operation"`
	Message   string        `json:"message"`
	Loan      Loan          `json:"loan"`
}
