//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxScoringModelNameLen = 255

// ScoringModelStatus is the lifecycle state of a scoring model.
type ScoringModelStatus string

const (
	ScoringModelStatusDraft    ScoringModelStatus = "draft"
	ScoringModelStatusActive   ScoringModelStatus = "active"
	ScoringModelStatusArchived ScoringModelStatus = "archived"
)

// Valid reports whether the scoring model status is supported.
func (s ScoringModelStatus) Valid() bool {
	switch s {
	case ScoringModelStatusDraft, ScoringModelStatusActive, ScoringModelStatusArchived:
		return true
	default:
		return false
	}
}

// ParseScoringModelStatus normalizes a status string and reports whether it is supported.
func ParseScoringModelStatus(value string) (ScoringModelStatus, bool) {
	status := ScoringModelStatus(strings.ToLower(strings.TrimSpace(value)))
	if status.Valid() {
		return status, true
	}
	return "", false
}

// ScoringModel is a versioned risk-scoring configuration. At most one
// model is active at a time; activation archives the previous one.
type ScoringModel struct {
	ID          string             `json:"id"                     db:"id"`
	Name        string             `json:"name"                   db:"name"`
	Version     int                `json:"version"                db:"version"`
	Status      ScoringModelStatus `json:"status"                 db:"status"`
	Threshold   float64            `json:"threshold"              db:"threshold"`
	Description *string            `json:"description,omitempty"  db:"description"`
	ActivatedAt *time.Time         `json:"activated_at,omitempty" db:"activated_at"`
	CreatedAt   time.Time          `json:"created_at"             db:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"             db:"updated_at"`
}

// CreateScoringModelRequest represents parameters to create a ScoringModel.
// New models always start as drafts.
type CreateScoringModelRequest struct {
	Name        string  `json:"name"`
	Threshold   float64 `json:"threshold"`
	Description *string `json:"description,omitempty"`
}

// Validate validates CreateScoringModelRequest.
func (r *CreateScoringModelRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxScoringModelNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	if r.Threshold < 0 || r.Threshold > 1 {
		return errors.New("threshold must be between 0 and 1")
	}
	return nil
}

// ScoringModelsListOptions controls paging and filtering for listing scoring models.
type ScoringModelsListOptions struct {
	Limit  int
	Offset int
	Q      *string             // substring match on name (ILIKE)
	Status *ScoringModelStatus // exact match
	Sort   string              // allowed: "created_at", "name", "version"
	Dir    string              // allowed: "asc", "desc"
}
