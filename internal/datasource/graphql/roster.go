package graphql

import (
	"context"
	"time"

	"github.com/rpggio/hostboard/internal/domain/roster"
	"github.com/rpggio/hostboard/internal/repository"
)

type accountNode struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Type     string `json:"type"`
	ImageURL string `json:"imageUrl"`
}

func (a *accountNode) toDomain() *roster.Account {
	if a == nil {
		return nil
	}
	return &roster.Account{ID: a.ID, Name: a.Name, Slug: a.Slug, Type: a.Type, ImageURL: a.ImageURL}
}

type memberNode struct {
	ID          string       `json:"id"`
	Role        string       `json:"role"`
	Since       time.Time    `json:"since"`
	Description string       `json:"description"`
	Account     *accountNode `json:"account"`
}

type invitationNode struct {
	ID            string       `json:"id"`
	Role          string       `json:"role"`
	Since         time.Time    `json:"since"`
	Description   string       `json:"description"`
	MemberAccount *accountNode `json:"memberAccount"`
}

type rosterData struct {
	Account *struct {
		ID     string `json:"id"`
		Slug   string `json:"slug"`
		Parent *struct {
			Slug string `json:"slug"`
		} `json:"parent"`
		Members *struct {
			Nodes []*memberNode `json:"nodes"`
		} `json:"members"`
		MemberInvitations []*invitationNode `json:"memberInvitations"`
	} `json:"account"`
}

// RosterSource implements roster.Source.
type RosterSource struct {
	client *Client
}

// NewRosterSource creates a roster source backed by client.
func NewRosterSource(client *Client) *RosterSource {
	return &RosterSource{client: client}
}

// FetchRoster fetches the members and invitations of an account.
func (s *RosterSource) FetchRoster(ctx context.Context, accountSlug string) (*roster.FetchResult, error) {
	var data rosterData
	if err := s.client.do(ctx, "Roster", map[string]any{"slug": accountSlug}, &data); err != nil {
		return nil, err
	}
	if data.Account == nil {
		return nil, repository.ErrNotFound
	}
	if data.Account.Parent != nil && data.Account.Parent.Slug != "" {
		return &roster.FetchResult{ParentSlug: data.Account.Parent.Slug}, nil
	}

	res := &roster.FetchResult{}
	if data.Account.Members != nil {
		for _, m := range data.Account.Members.Nodes {
			if m == nil {
				continue
			}
			res.Members = append(res.Members, roster.MemberRecord{
				ID:          m.ID,
				Role:        roster.ParseRole(m.Role),
				Since:       m.Since,
				Description: m.Description,
				Account:     m.Account.toDomain(),
			})
		}
	}
	for _, inv := range data.Account.MemberInvitations {
		if inv == nil {
			continue
		}
		res.Invitations = append(res.Invitations, roster.InvitationRecord{
			ID:          inv.ID,
			Role:        roster.ParseRole(inv.Role),
			Since:       inv.Since,
			Description: inv.Description,
			Account:     inv.MemberAccount.toDomain(),
		})
	}
	return res, nil
}
