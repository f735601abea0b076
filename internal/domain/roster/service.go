package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rpggio/hostboard/internal/repository"
)

// maxTrackedAccounts bounds how many per-account reconcilers are kept.
const maxTrackedAccounts = 512

// Service builds roster views.
type Service struct {
	source      Source
	reconcilers *lru.Cache[string, *Reconciler]
	logger      *slog.Logger
}

// NewService creates a new roster service.
func NewService(source Source, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	reconcilers, _ := lru.New[string, *Reconciler](maxTrackedAccounts)
	return &Service{source: source, reconcilers: reconcilers, logger: logger}
}

// Load fetches and reconciles the roster of an account. When a parent
// account manages membership the view carries only the parent slug.
func (s *Service) Load(ctx context.Context, accountSlug string) (*View, error) {
	accountSlug = strings.TrimSpace(accountSlug)
	if accountSlug == "" {
		return nil, ErrInvalidInput
	}

	res, err := s.source.FetchRoster(ctx, accountSlug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("fetching roster: %w", err)
	}

	view := &View{AccountSlug: accountSlug}
	if res.ParentSlug != "" {
		view.ParentSlug = res.ParentSlug
		return view, nil
	}

	r, cached := s.reconciler(accountSlug).Reconcile(res.Members, res.Invitations)
	s.logger.Debug("roster reconciled",
		"account", accountSlug,
		"entries", r.Len(),
		"admins", r.AdminCount,
		"cached", cached,
	)
	view.Roster = &r
	return view, nil
}

// CheckRemoval reports whether removing or demoting the entry with the given
// key would remove the account's last admin.
func (s *Service) CheckRemoval(ctx context.Context, accountSlug, entryKey string) (*RemovalCheck, error) {
	if strings.TrimSpace(entryKey) == "" {
		return nil, ErrInvalidInput
	}

	view, err := s.Load(ctx, accountSlug)
	if err != nil {
		return nil, err
	}
	if view.Delegated() {
		return nil, ErrDelegated
	}

	entry, ok := view.Roster.Find(entryKey)
	if !ok {
		return nil, ErrEntryNotFound
	}
	return &RemovalCheck{
		AccountSlug: view.AccountSlug,
		Entry:       entry,
		AdminCount:  view.Roster.AdminCount,
		IsLastAdmin: view.Roster.IsLastAdmin(entry),
	}, nil
}

func (s *Service) reconciler(accountSlug string) *Reconciler {
	if r, ok := s.reconcilers.Get(accountSlug); ok {
		return r
	}
	r := NewReconciler()
	if prev, ok, _ := s.reconcilers.PeekOrAdd(accountSlug, r); ok {
		return prev
	}
	return r
}
