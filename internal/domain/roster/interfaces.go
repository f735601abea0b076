package roster

import "context"

// Source fetches the members and invitations of an account.
type Source interface {
	FetchRoster(ctx context.Context, accountSlug string) (*FetchResult, error)
}
