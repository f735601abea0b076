package roster

import (
	"strings"
	"time"
)

// Role is a membership role. Hosts may define roles beyond the constants
// below; unknown values pass through unchanged.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleMember     Role = "MEMBER"
	RoleAccountant Role = "ACCOUNTANT"
)

// ParseRole normalizes a role string from a data source.
func ParseRole(s string) Role {
	return Role(strings.ToUpper(strings.TrimSpace(s)))
}

// Account is the account a membership or invitation refers to.
type Account struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Slug     string `json:"slug,omitempty"`
	Type     string `json:"type,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// MemberRecord is a confirmed membership as returned by a data source.
type MemberRecord struct {
	ID          string
	Role        Role
	Since       time.Time
	Description string
	Account     *Account
}

// InvitationRecord is a pending invitation as returned by a data source. ID
// is the invitation's own identifier and never becomes a member identifier.
type InvitationRecord struct {
	ID          string
	Role        Role
	Since       time.Time
	Description string
	Account     *Account
}

// Kind tags an Entry as a confirmed member, a pending invitation, or the
// placeholder of an empty roster.
type Kind string

const (
	KindConfirmed   Kind = "confirmed"
	KindPending     Kind = "pending"
	KindPlaceholder Kind = "placeholder"
)

// Entry is one row of a reconciled roster.
type Entry struct {
	Key         string    `json:"key"`
	Kind        Kind      `json:"kind"`
	MemberID    string    `json:"member_id,omitempty"`
	Role        Role      `json:"role,omitempty"`
	Since       time.Time `json:"since,omitzero"`
	Description string    `json:"description,omitempty"`
	Account     *Account  `json:"account,omitempty"`
}

// HasMemberID reports whether the entry carries a stable member identifier.
func (e Entry) HasMemberID() bool {
	return e.Kind == KindConfirmed && e.MemberID != ""
}

// Roster is the reconciled member list plus its derived aggregates.
type Roster struct {
	Entries          []Entry   `json:"entries"`
	AdminCount       int       `json:"admin_count"`
	MemberAccountIDs []*string `json:"member_account_ids"`
}

// FetchResult is what a Source returns for one account.
type FetchResult struct {
	Members     []MemberRecord
	Invitations []InvitationRecord
	// ParentSlug is set when membership is managed by a parent account.
	ParentSlug string
}

// View is the roster view model for one account.
type View struct {
	AccountSlug string  `json:"account_slug"`
	ParentSlug  string  `json:"parent_slug,omitempty"`
	Roster      *Roster `json:"roster,omitempty"`
}

// Delegated reports whether the roster is managed by a parent account.
func (v *View) Delegated() bool {
	return v.ParentSlug != ""
}

// RemovalCheck reports whether demoting or removing an entry touches the
// account's last admin.
type RemovalCheck struct {
	AccountSlug string `json:"account_slug"`
	Entry       Entry  `json:"entry"`
	AdminCount  int    `json:"admin_count"`
	IsLastAdmin bool   `json:"is_last_admin"`
}
