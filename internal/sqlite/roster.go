package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/hostboard/internal/domain/roster"
	"github.com/rpggio/hostboard/internal/repository"
)

// Membership is a stored member or invitation row.
type Membership struct {
	ID              string
	AccountID       string
	MemberAccountID string
	Role            string
	Description     string
	Since           time.Time
}

// RosterRepository implements roster.Source for SQLite.
type RosterRepository struct {
	db *DB
}

// NewRosterRepository creates a new RosterRepository
func NewRosterRepository(db *DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// AddMember inserts a confirmed membership.
func (r *RosterRepository) AddMember(ctx context.Context, m *Membership) error {
	return r.insert(ctx, "members", "add member", m)
}

// AddInvitation inserts a pending invitation.
func (r *RosterRepository) AddInvitation(ctx context.Context, m *Membership) error {
	return r.insert(ctx, "member_invitations", "add invitation", m)
}

func (r *RosterRepository) insert(ctx context.Context, table, op string, m *Membership) error {
	if m.AccountID == "" || m.MemberAccountID == "" || strings.TrimSpace(m.Role) == "" {
		return repository.ErrInvalidInput
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Since.IsZero() {
		m.Since = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO `+table+` (id, account_id, member_account_id, role, description, since)
		VALUES (?, ?, ?, ?, ?, ?)
	`, m.ID, m.AccountID, m.MemberAccountID, string(roster.ParseRole(m.Role)), m.Description, formatTime(m.Since))
	if err != nil {
		return mapWriteError(op, err)
	}
	return nil
}

// FetchRoster returns the members and invitations of an account. When the
// account has a parent only the parent slug is returned.
func (r *RosterRepository) FetchRoster(ctx context.Context, accountSlug string) (*roster.FetchResult, error) {
	acc, err := getAccount(ctx, r.db, "slug", accountSlug)
	if err != nil {
		return nil, err
	}

	if acc.ParentID != "" {
		parent, err := getAccount(ctx, r.db, "id", acc.ParentID)
		if err != nil {
			return nil, fmt.Errorf("failed to get parent account: %w", err)
		}
		return &roster.FetchResult{ParentSlug: parent.Slug}, nil
	}

	members, err := r.listMemberships(ctx, "members", acc.ID)
	if err != nil {
		return nil, err
	}
	invitations, err := r.listMemberships(ctx, "member_invitations", acc.ID)
	if err != nil {
		return nil, err
	}

	res := &roster.FetchResult{
		Members:     make([]roster.MemberRecord, 0, len(members)),
		Invitations: make([]roster.InvitationRecord, 0, len(invitations)),
	}
	for _, m := range members {
		res.Members = append(res.Members, roster.MemberRecord(m))
	}
	for _, inv := range invitations {
		res.Invitations = append(res.Invitations, roster.InvitationRecord(inv))
	}
	return res, nil
}

type membershipRow struct {
	ID          string
	Role        roster.Role
	Since       time.Time
	Description string
	Account     *roster.Account
}

func (r *RosterRepository) listMemberships(ctx context.Context, table, accountID string) ([]membershipRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.role, m.since, m.description,
			a.id, a.name, a.slug, a.type, a.image_url
		FROM `+table+` m
		JOIN accounts a ON a.id = m.member_account_id
		WHERE m.account_id = ?
		ORDER BY m.rowid
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer rows.Close()

	var out []membershipRow
	for rows.Next() {
		var (
			row   membershipRow
			role  string
			since string
			acc   roster.Account
		)
		if err := rows.Scan(&row.ID, &role, &since, &row.Description,
			&acc.ID, &acc.Name, &acc.Slug, &acc.Type, &acc.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		if row.Since, err = parseTime(since); err != nil {
			return nil, err
		}
		row.Role = roster.ParseRole(role)
		row.Account = &acc
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", table, err)
	}
	return out, nil
}
