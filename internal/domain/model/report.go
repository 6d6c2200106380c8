//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "time"

// ReportSummary aggregates the review workload over a time window.
type ReportSummary struct {
	WindowStart       time.Time `json:"window_start"        db:"window_start"`
	TotalTransactions int64     `json:"total_transactions"  db:"total_transactions"`
	PendingCount      int64     `json:"pending_count"       db:"pending_count"`
	ApprovedCount     int64     `json:"approved_count"      db:"approved_count"`
	DeclinedCount     int64     `json:"declined_count"      db:"declined_count"`
	HighRiskCount     int64     `json:"high_risk_count"     db:"high_risk_count"`
	AvgRiskScore      float64   `json:"avg_risk_score"      db:"avg_risk_score"`
}

// ReviewerActivity counts verdicts per reviewer over a time window.
type ReviewerActivity struct {
	ReviewerID    string `json:"reviewer_id"    db:"reviewer_id"`
	ApprovedCount int64  `json:"approved_count" db:"approved_count"`
	DeclinedCount int64  `json:"declined_count" db:"declined_count"`
}
