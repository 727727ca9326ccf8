package domain

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	movementdomain "github.com/cirrusops/revenue/internal/movement/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snap(account int64, date string, mrr string) movementdomain.RevenueSnapshot {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return movementdomain.RevenueSnapshot{
		AccountID:    snowflake.ParseInt64(account),
		SnapshotDate: day.UTC(),
		MRR:          d(mrr),
	}
}

func TestAggregateCohortRetention(t *testing.T) {
	snapshots := []movementdomain.RevenueSnapshot{
		snap(1, "2026-01-31", "100"),
		snap(2, "2026-01-31", "200"),
		snap(1, "2026-02-28", "120"),
		snap(3, "2026-02-28", "300"),
	}

	table := AggregateCohortRetention(snapshots)

	require.Len(t, table, 2)

	jan := table["2026-01"]
	require.Len(t, jan, 2)
	assert.Equal(t, 2, jan["2026-01"].Count)
	assert.True(t, jan["2026-01"].MRR.Equal(d("300")))
	assert.Equal(t, 1, jan["2026-02"].Count)
	assert.True(t, jan["2026-02"].MRR.Equal(d("120")))

	feb := table["2026-02"]
	require.Len(t, feb, 1)
	assert.Equal(t, 1, feb["2026-02"].Count)
	assert.True(t, feb["2026-02"].MRR.Equal(d("300")))
}

func TestAggregateCohortRetention_CohortIsFirstSeenInInput(t *testing.T) {
	// Account 1 appears out of order; its cohort is still the earliest month.
	snapshots := []movementdomain.RevenueSnapshot{
		snap(1, "2026-03-31", "150"),
		snap(1, "2026-01-31", "100"),
	}

	table := AggregateCohortRetention(snapshots)

	require.Len(t, table, 1)
	row := table["2026-01"]
	assert.Equal(t, 1, row["2026-01"].Count)
	assert.Equal(t, 1, row["2026-03"].Count)
}

func TestAggregateCohortRetention_CellCountsSumToRows(t *testing.T) {
	snapshots := []movementdomain.RevenueSnapshot{
		snap(1, "2026-01-31", "100"),
		snap(2, "2026-01-31", "200"),
		snap(1, "2026-02-28", "120"),
		snap(2, "2026-02-28", "180"),
		snap(3, "2026-02-28", "300"),
		snap(3, "2026-03-31", "310"),
	}

	table := AggregateCohortRetention(snapshots)

	total := 0
	for _, row := range table {
		for _, cell := range row {
			total += cell.Count
		}
	}
	assert.Equal(t, len(snapshots), total)
}

func TestAggregateCohortRetention_Empty(t *testing.T) {
	require.Empty(t, AggregateCohortRetention(nil))
}
