//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxTransactionReferenceLen = 64
	maxReviewNoteLen           = 1024
)

// TransactionStatus is the review state of a transaction.
type TransactionStatus string

const (
	TransactionStatusPending  TransactionStatus = "pending"
	TransactionStatusApproved TransactionStatus = "approved"
	TransactionStatusDeclined TransactionStatus = "declined"
)

// Valid reports whether the transaction status is supported.
func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusApproved, TransactionStatusDeclined:
		return true
	default:
		return false
	}
}

// ParseTransactionStatus normalizes a status string and reports whether it is supported.
func ParseTransactionStatus(value string) (TransactionStatus, bool) {
	status := TransactionStatus(strings.ToLower(strings.TrimSpace(value)))
	if status.Valid() {
		return status, true
	}
	return "", false
}

// Transaction is one payment under fraud review.
type Transaction struct {
	ID            string            `json:"id"                       db:"id"`
	Reference     string            `json:"reference"                db:"reference"`
	AmountCents   int64             `json:"amount_cents"             db:"amount_cents"`
	Currency      string            `json:"currency"                 db:"currency"`
	CustomerEmail string            `json:"customer_email"           db:"customer_email"`
	RiskScore     float64           `json:"risk_score"               db:"risk_score"`
	Status        TransactionStatus `json:"status"                   db:"status"`
	ModelID       *string           `json:"model_id,omitempty"       db:"model_id"`
	ReviewedBy    *string           `json:"reviewed_by,omitempty"    db:"reviewed_by"`
	ReviewedAt    *time.Time        `json:"reviewed_at,omitempty"    db:"reviewed_at"`
	ReviewNote    *string           `json:"review_note,omitempty"    db:"review_note"`
	CreatedAt     time.Time         `json:"created_at"               db:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"               db:"updated_at"`
}

// CreateTransactionRequest represents parameters to ingest a Transaction.
type CreateTransactionRequest struct {
	Reference     string  `json:"reference"`
	AmountCents   int64   `json:"amount_cents"`
	Currency      string  `json:"currency"`
	CustomerEmail string  `json:"customer_email"`
	RiskScore     float64 `json:"risk_score"`
	ModelID       *string `json:"model_id,omitempty"`
}

// Validate validates CreateTransactionRequest.
func (r *CreateTransactionRequest) Validate() error {
	ref := strings.TrimSpace(r.Reference)
	if ref == "" {
		return errors.New("reference is required and cannot be empty")
	}
	if utf8.RuneCountInString(ref) > maxTransactionReferenceLen {
		return errors.New("reference cannot exceed 64 characters")
	}
	if r.AmountCents <= 0 {
		return errors.New("amount_cents must be > 0")
	}
	if len(strings.TrimSpace(r.Currency)) != 3 {
		return errors.New("currency must be a 3-letter code")
	}
	if r.RiskScore < 0 || r.RiskScore > 1 {
		return errors.New("risk_score must be between 0 and 1")
	}
	return nil
}

// ReviewTransactionRequest records a reviewer verdict on a pending transaction.
type ReviewTransactionRequest struct {
	ReviewerID string  `json:"reviewer_id"`
	Note       *string `json:"note,omitempty"`
}

// Validate validates ReviewTransactionRequest.
func (r *ReviewTransactionRequest) Validate() error {
	if strings.TrimSpace(r.ReviewerID) == "" {
		return errors.New("reviewer_id is required")
	}
	if r.Note != nil && utf8.RuneCountInString(*r.Note) > maxReviewNoteLen {
		return errors.New("note cannot exceed 1024 characters")
	}
	return nil
}

// TransactionsListOptions controls paging and filtering for listing transactions.
// Notes:
// - Sort supports: "created_at", "risk_score", "amount_cents" (case-insensitive).
// - Dir supports: "asc", "desc" (case-insensitive); values are normalized internally.
// - Q matches reference or customer_email via ILIKE substring.
// - Status matches exactly; MinRiskScore is an inclusive lower bound.
type TransactionsListOptions struct {
	Limit        int
	Offset       int
	Q            *string
	Status       *TransactionStatus
	MinRiskScore *float64
	Sort         string
	Dir          string
}
