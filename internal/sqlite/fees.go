package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/hostboard/internal/domain/fees"
	"github.com/rpggio/hostboard/internal/repository"
)

// monthLayout matches the first seven characters of a stored timestamp.
const monthLayout = "2006-01"

// HostFee is a single host fee transaction.
type HostFee struct {
	HostID       string
	OccurredAt   time.Time
	ValueInCents int64
	Currency     string
}

// Settlement is a single fee-share settlement.
type Settlement struct {
	HostID       string
	OccurredAt   time.Time
	ValueInCents int64
	Currency     string
	Status       string
}

// FeeRepository implements fees.Source for SQLite.
type FeeRepository struct {
	db *DB
}

// NewFeeRepository creates a new FeeRepository
func NewFeeRepository(db *DB) *FeeRepository {
	return &FeeRepository{db: db}
}

// RecordHostFee stores a host fee transaction.
func (r *FeeRepository) RecordHostFee(ctx context.Context, f *HostFee) error {
	if f.HostID == "" || f.OccurredAt.IsZero() || f.Currency == "" {
		return repository.ErrInvalidInput
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO host_fee_transactions (host_id, occurred_at, value_in_cents, currency)
		VALUES (?, ?, ?, ?)
	`, f.HostID, formatTime(f.OccurredAt), f.ValueInCents, f.Currency)
	if err != nil {
		return mapWriteError("record host fee", err)
	}
	return nil
}

// RecordSettlement stores a fee-share settlement.
func (r *FeeRepository) RecordSettlement(ctx context.Context, s *Settlement) error {
	if s.HostID == "" || s.OccurredAt.IsZero() || s.Currency == "" || strings.TrimSpace(s.Status) == "" {
		return repository.ErrInvalidInput
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO fee_share_settlements (host_id, occurred_at, value_in_cents, currency, status)
		VALUES (?, ?, ?, ?, ?)
	`, s.HostID, formatTime(s.OccurredAt), s.ValueInCents, s.Currency, strings.ToUpper(strings.TrimSpace(s.Status)))
	if err != nil {
		return mapWriteError("record settlement", err)
	}
	return nil
}

// FetchHost returns the host account with the given slug.
func (r *FeeRepository) FetchHost(ctx context.Context, hostSlug string) (*fees.Host, error) {
	acc, err := getAccount(ctx, r.db, "slug", hostSlug)
	if err != nil {
		return nil, err
	}
	return &fees.Host{
		Slug:      acc.Slug,
		CreatedAt: acc.CreatedAt.Format(time.RFC3339),
		Currency:  acc.Currency,
	}, nil
}

// FetchFees returns monthly host fee and settlement totals for a host within
// the query range, both ends inclusive.
func (r *FeeRepository) FetchFees(ctx context.Context, q fees.Query) (*fees.FetchResult, error) {
	acc, err := getAccount(ctx, r.db, "slug", q.HostSlug)
	if err != nil {
		return nil, err
	}
	from, to := formatTime(q.From), formatTime(q.To)

	res := &fees.FetchResult{
		HostCreatedAt: acc.CreatedAt.Format(time.RFC3339),
		HostCurrency:  acc.Currency,
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT substr(occurred_at, 1, 7) AS month, SUM(value_in_cents)
		FROM host_fee_transactions
		WHERE host_id = ? AND occurred_at >= ? AND occurred_at <= ?
		GROUP BY month
		ORDER BY month
	`, acc.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query host fees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			month string
			cents int64
		)
		if err := rows.Scan(&month, &cents); err != nil {
			return nil, fmt.Errorf("failed to scan host fee row: %w", err)
		}
		rec, err := monthlyRecord(month, cents, acc.Currency)
		if err != nil {
			return nil, err
		}
		res.HostFees = append(res.HostFees, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating host fee rows: %w", err)
	}

	settlements, err := r.db.QueryContext(ctx, `
		SELECT substr(occurred_at, 1, 7) AS month, status, SUM(value_in_cents)
		FROM fee_share_settlements
		WHERE host_id = ? AND occurred_at >= ? AND occurred_at <= ?
		GROUP BY month, status
		ORDER BY month, status
	`, acc.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query settlements: %w", err)
	}
	defer settlements.Close()

	for settlements.Next() {
		var (
			month, status string
			cents         int64
		)
		if err := settlements.Scan(&month, &status, &cents); err != nil {
			return nil, fmt.Errorf("failed to scan settlement row: %w", err)
		}
		rec, err := monthlyRecord(month, cents, acc.Currency)
		if err != nil {
			return nil, err
		}
		res.FeeShare = append(res.FeeShare, fees.SettlementRecord{MonthlyFeeRecord: rec, Status: status})
	}
	if err := settlements.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settlement rows: %w", err)
	}

	return res, nil
}

func monthlyRecord(month string, cents int64, currency string) (fees.MonthlyFeeRecord, error) {
	date, err := time.Parse(monthLayout, month)
	if err != nil {
		return fees.MonthlyFeeRecord{}, fmt.Errorf("invalid stored month %q: %w", month, err)
	}
	return fees.MonthlyFeeRecord{Date: date, Amount: fees.NewAmount(cents, currency)}, nil
}
