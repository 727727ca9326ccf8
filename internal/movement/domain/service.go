package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// RunBatch snapshots one organization for the observation date. Safe to
	// re-run: writes upsert on (org, account, date).
	RunBatch(ctx context.Context, orgID snowflake.ID, date time.Time) (*OrgReport, error)
	// RunAll snapshots every organization with balance or snapshot history.
	// Per-org failures are collected; the batch never fails atomically.
	// batchSize caps how many snapshot rows are flushed per write; zero or
	// negative uses the service default.
	RunAll(ctx context.Context, date time.Time, batchSize int) (*BatchReport, error)
	ListSnapshots(ctx context.Context, orgID snowflake.ID, from, to time.Time) ([]RevenueSnapshot, error)
}

// OrgReport is one organization's batch outcome.
type OrgReport struct {
	OrgID     snowflake.ID `json:"organization_id"`
	Snapshots int          `json:"snapshots"`
	Churned   int          `json:"churned"`
	Errors    []string     `json:"errors,omitempty"`
}

// BatchReport is the partial-success summary of a full run.
type BatchReport struct {
	Date time.Time   `json:"date"`
	Orgs []OrgReport `json:"organizations"`
}

var (
	ErrInvalidDate = errors.New("invalid_date")
	ErrInvalidOrg  = errors.New("invalid_organization")
)
