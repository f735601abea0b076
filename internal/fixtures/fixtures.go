// Package fixtures seeds a SQLite store from a YAML document. Accounts are
// referenced by slug everywhere else in the document.
package fixtures

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/rpggio/hostboard/internal/sqlite"
	"gopkg.in/yaml.v3"
)

// Demo is a small fixture set with a host, a collective with a child event,
// and a year of fees.
//
//go:embed demo.yaml
var Demo []byte

// File is a fixture document.
type File struct {
	Accounts    []Account    `yaml:"accounts"`
	Members     []Membership `yaml:"members"`
	Invitations []Membership `yaml:"invitations"`
	HostFees    []Fee        `yaml:"host_fees"`
	Settlements []Fee        `yaml:"settlements"`
}

type Account struct {
	Slug      string    `yaml:"slug"`
	Name      string    `yaml:"name"`
	Type      string    `yaml:"type"`
	ImageURL  string    `yaml:"image_url"`
	Currency  string    `yaml:"currency"`
	Parent    string    `yaml:"parent"`
	CreatedAt time.Time `yaml:"created_at"`
}

type Membership struct {
	Account     string    `yaml:"account"`
	Member      string    `yaml:"member"`
	Role        string    `yaml:"role"`
	Description string    `yaml:"description"`
	Since       time.Time `yaml:"since"`
}

type Fee struct {
	Host         string    `yaml:"host"`
	OccurredAt   time.Time `yaml:"occurred_at"`
	ValueInCents int64     `yaml:"value_in_cents"`
	Currency     string    `yaml:"currency"`
	Status       string    `yaml:"status"`
}

// Summary counts what a load inserted.
type Summary struct {
	Accounts    int
	Members     int
	Invitations int
	HostFees    int
	Settlements int
}

// Parse decodes a fixture document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &f, nil
}

// LoadFile reads the fixture file at path and applies it to db.
func LoadFile(ctx context.Context, db *sqlite.DB, path string) (Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, fmt.Errorf("read fixtures: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return Summary{}, err
	}
	return Apply(ctx, db, f)
}

// LoadDemo applies the Demo fixtures to db.
func LoadDemo(ctx context.Context, db *sqlite.DB) (Summary, error) {
	f, err := Parse(Demo)
	if err != nil {
		return Summary{}, err
	}
	return Apply(ctx, db, f)
}

// Apply inserts every row of f. Parents must be listed before their
// children.
func Apply(ctx context.Context, db *sqlite.DB, f *File) (Summary, error) {
	var sum Summary
	accounts := sqlite.NewAccountRepository(db)
	rosters := sqlite.NewRosterRepository(db)
	feeRepo := sqlite.NewFeeRepository(db)

	ids := make(map[string]string, len(f.Accounts))
	lookup := func(slug string) (string, error) {
		id, ok := ids[slug]
		if !ok {
			return "", fmt.Errorf("unknown account %q", slug)
		}
		return id, nil
	}

	for _, a := range f.Accounts {
		acc := &sqlite.Account{
			Slug:      a.Slug,
			Name:      a.Name,
			Type:      a.Type,
			ImageURL:  a.ImageURL,
			Currency:  a.Currency,
			CreatedAt: a.CreatedAt,
		}
		if a.Parent != "" {
			parentID, err := lookup(a.Parent)
			if err != nil {
				return sum, fmt.Errorf("account %s parent: %w", a.Slug, err)
			}
			acc.ParentID = parentID
		}
		if err := accounts.Create(ctx, acc); err != nil {
			return sum, fmt.Errorf("account %s: %w", a.Slug, err)
		}
		ids[a.Slug] = acc.ID
		sum.Accounts++
	}

	memberships := func(list []Membership, add func(context.Context, *sqlite.Membership) error, count *int) error {
		for _, m := range list {
			accountID, err := lookup(m.Account)
			if err != nil {
				return err
			}
			memberID, err := lookup(m.Member)
			if err != nil {
				return err
			}
			err = add(ctx, &sqlite.Membership{
				AccountID:       accountID,
				MemberAccountID: memberID,
				Role:            m.Role,
				Description:     m.Description,
				Since:           m.Since,
			})
			if err != nil {
				return fmt.Errorf("membership %s/%s: %w", m.Account, m.Member, err)
			}
			*count++
		}
		return nil
	}
	if err := memberships(f.Members, rosters.AddMember, &sum.Members); err != nil {
		return sum, err
	}
	if err := memberships(f.Invitations, rosters.AddInvitation, &sum.Invitations); err != nil {
		return sum, err
	}

	for _, fee := range f.HostFees {
		hostID, err := lookup(fee.Host)
		if err != nil {
			return sum, err
		}
		err = feeRepo.RecordHostFee(ctx, &sqlite.HostFee{
			HostID:       hostID,
			OccurredAt:   fee.OccurredAt,
			ValueInCents: fee.ValueInCents,
			Currency:     fee.Currency,
		})
		if err != nil {
			return sum, fmt.Errorf("host fee for %s: %w", fee.Host, err)
		}
		sum.HostFees++
	}

	for _, fee := range f.Settlements {
		hostID, err := lookup(fee.Host)
		if err != nil {
			return sum, err
		}
		err = feeRepo.RecordSettlement(ctx, &sqlite.Settlement{
			HostID:       hostID,
			OccurredAt:   fee.OccurredAt,
			ValueInCents: fee.ValueInCents,
			Currency:     fee.Currency,
			Status:       fee.Status,
		})
		if err != nil {
			return sum, fmt.Errorf("settlement for %s: %w", fee.Host, err)
		}
		sum.Settlements++
	}

	return sum, nil
}
