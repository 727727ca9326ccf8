package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	movementdomain "github.com/cirrusops/revenue/internal/movement/domain"
	"github.com/shopspring/decimal"
)

// CohortCell aggregates one (cohort month, observation month) pair.
type CohortCell struct {
	Count int             `json:"count"`
	MRR   decimal.Decimal `json:"mrr"`
}

// CohortTable maps cohort month -> observation month -> cell. Months are
// formatted "2006-01".
type CohortTable map[string]map[string]CohortCell

// AggregateCohortRetention buckets snapshots by each account's first-seen
// month within the input set and the month each row was observed. The cohort
// is relative to the batch provided, not global history.
func AggregateCohortRetention(snapshots []movementdomain.RevenueSnapshot) CohortTable {
	cohorts := make(map[snowflake.ID]time.Time, len(snapshots))
	for _, snap := range snapshots {
		first, ok := cohorts[snap.AccountID]
		if !ok || snap.SnapshotDate.Before(first) {
			cohorts[snap.AccountID] = snap.SnapshotDate
		}
	}

	table := make(CohortTable)
	for _, snap := range snapshots {
		cohortMonth := monthKey(cohorts[snap.AccountID])
		observationMonth := monthKey(snap.SnapshotDate)

		row, ok := table[cohortMonth]
		if !ok {
			row = make(map[string]CohortCell)
			table[cohortMonth] = row
		}

		cell := row[observationMonth]
		cell.Count++
		cell.MRR = cell.MRR.Add(snap.MRR)
		row[observationMonth] = cell
	}

	return table
}

func monthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}
