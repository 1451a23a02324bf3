// Package tracker records per-call model usage so the stats command and
// the daily budget check can account for spend.
package tracker

import (
	"database/sql"
	"time"
)

// ModelUsage is one recorded model call
type ModelUsage struct {
	ID                int64      `json:"id"`
	OperationType     string     `json:"operation_type"`
	EntityType        string     `json:"entity_type"`
	EntityID          string     `json:"entity_id"`
	ModelName         string     `json:"model_name"`
	ModelProvider     string     `json:"model_provider"`
	RequestTimestamp  time.Time  `json:"request_timestamp"`
	ResponseTimestamp *time.Time `json:"response_timestamp,omitempty"`
	TokensUsed        *int       `json:"tokens_used,omitempty"`
	Cost              *float64   `json:"cost,omitempty"`
	Success           bool       `json:"success"`
	ErrorMessage      *string    `json:"error_message,omitempty"`
}

// UsageStats aggregates recorded usage over a period
type UsageStats struct {
	TotalRequests      int     `json:"total_requests"`
	SuccessfulRequests int     `json:"successful_requests"`
	SuccessRate        float64 `json:"success_rate"`
	TotalTokens        int     `json:"total_tokens"`
	TotalCost          float64 `json:"total_cost"`
}

// UsageTracker persists model usage rows
type UsageTracker struct {
	db *sql.DB
}

// New creates a tracker over an opened, migrated database handle
func New(db *sql.DB) *UsageTracker {
	return &UsageTracker{db: db}
}

// TrackUsage records one model call. Tracking failures are the caller's
// problem to log; the call itself already happened.
func (t *UsageTracker) TrackUsage(usage *ModelUsage) error {
	_, err := t.db.Exec(`
		INSERT INTO model_usage (
			operation_type, entity_type, entity_id, model_name, model_provider,
			request_timestamp, response_timestamp, tokens_used, cost, success,
			error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		usage.OperationType, usage.EntityType, usage.EntityID,
		usage.ModelName, usage.ModelProvider,
		usage.RequestTimestamp, usage.ResponseTimestamp, usage.TokensUsed,
		usage.Cost, usage.Success, usage.ErrorMessage,
	)
	return err
}

// GetUsageStats returns aggregate usage since the given time
func (t *UsageTracker) GetUsageStats(since time.Time) (*UsageStats, error) {
	var stats UsageStats
	err := t.db.QueryRow(`
		SELECT
			COUNT(*),
			COUNT(CASE WHEN success = 1 THEN 1 END),
			COALESCE(SUM(COALESCE(tokens_used, 0)), 0),
			COALESCE(SUM(COALESCE(cost, 0)), 0)
		FROM model_usage
		WHERE request_timestamp >= ?`, since,
	).Scan(&stats.TotalRequests, &stats.SuccessfulRequests, &stats.TotalTokens, &stats.TotalCost)
	if err != nil {
		return nil, err
	}
	if stats.TotalRequests > 0 {
		stats.SuccessRate = float64(stats.SuccessfulRequests) / float64(stats.TotalRequests)
	}
	return &stats, nil
}

// CostSince returns total recorded spend since the given time. The
// scoring orchestrator checks this against the daily budget before
// submitting anything.
func (t *UsageTracker) CostSince(since time.Time) (float64, error) {
	var cost float64
	err := t.db.QueryRow(`
		SELECT COALESCE(SUM(COALESCE(cost, 0)), 0)
		FROM model_usage
		WHERE request_timestamp >= ?`, since,
	).Scan(&cost)
	if err != nil {
		return 0, err
	}
	return cost, nil
}
