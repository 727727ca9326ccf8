package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cirrusops/revenue/internal/movement/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

type Param struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

func New(p Param) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("movement.service"),
		genID: p.GenID,
	}
}

// accountState folds an account's prior and current MRR before
// classification. Grouping is by explicit account id, never string keys.
type accountState struct {
	accountID snowflake.ID
	previous  *decimal.Decimal
	current   decimal.Decimal
	present   bool
}

// defaultWriteBatch bounds one flush of snapshot rows.
const defaultWriteBatch = 500

func (s *Service) RunAll(ctx context.Context, date time.Time, batchSize int) (*domain.BatchReport, error) {
	date = normalizeDate(date)
	if date.IsZero() {
		return nil, domain.ErrInvalidDate
	}
	if batchSize <= 0 {
		batchSize = defaultWriteBatch
	}

	orgIDs, err := s.listOrgs(ctx)
	if err != nil {
		return nil, err
	}

	report := &domain.BatchReport{Date: date, Orgs: make([]domain.OrgReport, 0, len(orgIDs))}
	for _, orgID := range orgIDs {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		orgReport, err := s.runOrg(ctx, orgID, date, batchSize)
		if err != nil {
			// One tenant's failure never aborts the batch for the rest.
			s.log.Warn("movement batch failed for organization",
				zap.String("org_id", orgID.String()),
				zap.Error(err),
			)
			report.Orgs = append(report.Orgs, domain.OrgReport{
				OrgID:  orgID,
				Errors: []string{err.Error()},
			})
			continue
		}
		report.Orgs = append(report.Orgs, *orgReport)
	}

	return report, nil
}

func (s *Service) RunBatch(ctx context.Context, orgID snowflake.ID, date time.Time) (*domain.OrgReport, error) {
	return s.runOrg(ctx, orgID, date, defaultWriteBatch)
}

func (s *Service) runOrg(ctx context.Context, orgID snowflake.ID, date time.Time, batchSize int) (*domain.OrgReport, error) {
	if orgID == 0 {
		return nil, domain.ErrInvalidOrg
	}
	date = normalizeDate(date)
	if date.IsZero() {
		return nil, domain.ErrInvalidDate
	}

	report := &domain.OrgReport{OrgID: orgID}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		states, err := s.foldAccounts(ctx, tx, orgID, date)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		pending := make([]domain.RevenueSnapshot, 0, batchSize)
		for _, state := range states {
			snapshot := domain.RevenueSnapshot{
				ID:           s.genID.Generate(),
				OrgID:        orgID,
				AccountID:    state.accountID,
				SnapshotDate: date,
				CreatedAt:    now,
			}

			if state.present {
				snapshot.MRR = state.current
				snapshot.Movement = domain.Classify(state.previous, state.current)
			} else {
				// Account dropped out of the current period with revenue on
				// the books: implicit zero, churn.
				snapshot.MRR = decimal.Zero
				snapshot.Movement = domain.MovementChurn
				report.Churned++
			}

			pending = append(pending, snapshot)
			if len(pending) == batchSize {
				s.flushSnapshots(ctx, tx, pending, report)
				pending = pending[:0]
			}
		}
		s.flushSnapshots(ctx, tx, pending, report)

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("movement batch complete",
		zap.String("org_id", orgID.String()),
		zap.Time("date", date),
		zap.Int("snapshots", report.Snapshots),
		zap.Int("churned", report.Churned),
		zap.Int("errors", len(report.Errors)),
	)
	return report, nil
}

func (s *Service) ListSnapshots(ctx context.Context, orgID snowflake.ID, from, to time.Time) ([]domain.RevenueSnapshot, error) {
	if orgID == 0 {
		return nil, domain.ErrInvalidOrg
	}

	stmt := s.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("snapshot_date ASC, account_id ASC")
	if !from.IsZero() {
		stmt = stmt.Where("snapshot_date >= ?", normalizeDate(from))
	}
	if !to.IsZero() {
		stmt = stmt.Where("snapshot_date <= ?", normalizeDate(to))
	}

	var rows []domain.RevenueSnapshot
	if err := stmt.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// foldAccounts builds one state per account: the latest balance within the
// observation period (the calendar month of date, up to date itself), and the
// most recent snapshot strictly before the observation date. Accounts known
// only from history (no current-period balance) are carried with
// present=false so the churn pass can see them.
func (s *Service) foldAccounts(ctx context.Context, tx *gorm.DB, orgID snowflake.ID, date time.Time) ([]accountState, error) {
	periodStart := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)

	var balances []domain.AccountBalance
	if err := tx.WithContext(ctx).
		Where("org_id = ? AND as_of >= ? AND as_of <= ?", orgID, periodStart, date).
		Order("account_id ASC, as_of DESC").
		Find(&balances).Error; err != nil {
		return nil, err
	}

	var priors []domain.RevenueSnapshot
	if err := tx.WithContext(ctx).
		Where("org_id = ? AND snapshot_date < ?", orgID, date).
		Order("account_id ASC, snapshot_date DESC").
		Find(&priors).Error; err != nil {
		return nil, err
	}

	index := make(map[snowflake.ID]int)
	states := make([]accountState, 0, len(balances))

	for _, balance := range balances {
		if _, seen := index[balance.AccountID]; seen {
			continue // rows are ordered as_of DESC; first wins
		}
		index[balance.AccountID] = len(states)
		states = append(states, accountState{
			accountID: balance.AccountID,
			current:   balance.MRR,
			present:   true,
		})
	}

	for _, prior := range priors {
		pos, seen := index[prior.AccountID]
		if seen {
			if pos >= 0 && states[pos].previous == nil {
				mrr := prior.MRR
				states[pos].previous = &mrr
			}
			continue
		}

		// Historical account absent from the current period. Only accounts
		// that still carried revenue churn; fully churned ones stay silent.
		if !prior.MRR.IsPositive() {
			index[prior.AccountID] = -1
			continue
		}
		mrr := prior.MRR
		index[prior.AccountID] = len(states)
		states = append(states, accountState{
			accountID: prior.AccountID,
			previous:  &mrr,
			present:   false,
		})
	}

	return states, nil
}

func (s *Service) listOrgs(ctx context.Context) ([]snowflake.ID, error) {
	var ids []int64
	err := s.db.WithContext(ctx).Raw(`
		SELECT org_id FROM account_balances
		UNION
		SELECT org_id FROM revenue_snapshots
		ORDER BY org_id ASC
	`).Scan(&ids).Error
	if err != nil {
		return nil, err
	}

	orgs := make([]snowflake.ID, 0, len(ids))
	for _, id := range ids {
		orgs = append(orgs, snowflake.ParseInt64(id))
	}
	return orgs, nil
}

// flushSnapshots writes one chunk. A failed chunk is retried row by row so a
// single bad account surfaces in the report without hiding the rest.
func (s *Service) flushSnapshots(ctx context.Context, tx *gorm.DB, snapshots []domain.RevenueSnapshot, report *domain.OrgReport) {
	if len(snapshots) == 0 {
		return
	}
	if err := upsertSnapshots(ctx, tx, snapshots); err == nil {
		report.Snapshots += len(snapshots)
		return
	}

	for i := range snapshots {
		if err := upsertSnapshots(ctx, tx, snapshots[i:i+1]); err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("account %s: %v", snapshots[i].AccountID, err))
			continue
		}
		report.Snapshots++
	}
}

// upsertSnapshots keys on (org_id, account_id, snapshot_date) so re-running a
// date replaces instead of duplicating.
func upsertSnapshots(ctx context.Context, tx *gorm.DB, snapshots []domain.RevenueSnapshot) error {
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "org_id"},
			{Name: "account_id"},
			{Name: "snapshot_date"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"mrr", "movement_type"}),
	}).Create(&snapshots).Error
}

func normalizeDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
