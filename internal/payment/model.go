package payment

import (
	"time"

	"github.com/uptrace/bun"
)

// Payment statuses. Transitions are unrestricted between the three.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ValidStatus reports whether s is one of the three known statuses.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Payment is a student's fee payment claim. It is joined to a student
// only by the matric number string; no foreign key exists because
// payments may be submitted before the student registers.
type Payment struct {
	bun.BaseModel `bun:"table:payments,alias:p"`

	ID              int        `bun:"id,pk,autoincrement" json:"id"`
	FullName        string     `bun:"full_name,notnull" json:"fullName"`
	MatricNumber    string     `bun:"matric_number,notnull" json:"matricNumber"`
	Level           int        `bun:"level,notnull" json:"level"`
	Email           string     `bun:"email,notnull" json:"email"`
	PhoneNumber     string     `bun:"phone_number,notnull" json:"phoneNumber"`
	PaymentItems    string     `bun:"payment_items,notnull" json:"paymentItems"` // JSON list of selected items
	TotalAmount     float64    `bun:"total_amount,notnull" json:"totalAmount"`
	TransactionRef  string     `bun:"transaction_ref" json:"transactionRef"`
	PaymentDate     *time.Time `bun:"payment_date,nullzero" json:"paymentDate,omitempty"`
	ReceiptFilename string     `bun:"receipt_filename" json:"receiptFilename,omitempty"`
	Status          string     `bun:"status,default:'pending'" json:"status"`
	CreatedAt       time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt       time.Time  `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}

// SubmitRequest is the multipart payment form, minus the receipt file.
type SubmitRequest struct {
	FullName       string
	MatricNumber   string
	Level          int
	Email          string
	PhoneNumber    string
	PaymentItems   string
	TotalAmount    float64
	TransactionRef string
	PaymentDate    *time.Time
}

// EditRequest is the admin's full-overwrite edit of a payment. There
// are no partial-field semantics; the last writer wins.
type EditRequest struct {
	FullName       string  `json:"fullName" validate:"required"`
	MatricNumber   string  `json:"matricNumber" validate:"required"`
	Level          int     `json:"level" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	PhoneNumber    string  `json:"phoneNumber" validate:"required"`
	TotalAmount    float64 `json:"totalAmount" validate:"required"`
	TransactionRef string  `json:"transactionRef"`
}

// LevelStat aggregates payments per academic level.
type LevelStat struct {
	Level int     `bun:"level" json:"level"`
	Count int     `bun:"count" json:"count"`
	Total float64 `bun:"total" json:"total"`
}

// StatusStat aggregates payments per review status.
type StatusStat struct {
	Status string  `bun:"status" json:"status"`
	Count  int     `bun:"count" json:"count"`
	Total  float64 `bun:"total" json:"total"`
}

// MonthStat aggregates payments per calendar month ("YYYY-MM").
type MonthStat struct {
	Month string  `bun:"month" json:"month"`
	Count int     `bun:"count" json:"count"`
	Total float64 `bun:"total" json:"total"`
}
