package roster

import "github.com/rpggio/hostboard/internal/memo"

// Reconcile merges confirmed members and pending invitations into one roster.
// Members come first, then invitations, each in source order. An empty roster
// holds a single placeholder entry that no aggregate counts.
func Reconcile(members []MemberRecord, invitations []InvitationRecord) Roster {
	entries := make([]Entry, 0, len(members)+len(invitations))
	for _, m := range members {
		entries = append(entries, confirmedEntry(m))
	}
	for _, inv := range invitations {
		entries = append(entries, pendingEntry(inv))
	}

	r := Roster{
		AdminCount:       0,
		MemberAccountIDs: make([]*string, 0, len(entries)),
	}
	for _, e := range entries {
		if e.Role == RoleAdmin && e.HasMemberID() {
			r.AdminCount++
		}
		var accountID *string
		if e.Account != nil {
			id := e.Account.ID
			accountID = &id
		}
		r.MemberAccountIDs = append(r.MemberAccountIDs, accountID)
	}

	if len(entries) == 0 {
		entries = append(entries, Entry{Kind: KindPlaceholder})
	}
	r.Entries = entries
	return r
}

func confirmedEntry(m MemberRecord) Entry {
	return Entry{
		Key:         "member-" + m.ID,
		Kind:        KindConfirmed,
		MemberID:    m.ID,
		Role:        m.Role,
		Since:       m.Since,
		Description: m.Description,
		Account:     m.Account,
	}
}

// pendingEntry drops the invitation's own id so it can never be taken for a
// member identifier.
func pendingEntry(inv InvitationRecord) Entry {
	accountID := ""
	if inv.Account != nil {
		accountID = inv.Account.ID
	}
	return Entry{
		Key:         "collective-" + accountID,
		Kind:        KindPending,
		Role:        inv.Role,
		Since:       inv.Since,
		Description: inv.Description,
		Account:     inv.Account,
	}
}

// IsLastAdmin reports whether demoting or removing e would leave the account
// without an admin. Invitations and the placeholder are never the last admin.
func (r Roster) IsLastAdmin(e Entry) bool {
	return r.AdminCount == 1 && e.Role == RoleAdmin && e.HasMemberID()
}

// Find returns the entry with the given key.
func (r Roster) Find(key string) (Entry, bool) {
	if key == "" {
		return Entry{}, false
	}
	for _, e := range r.Entries {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

// Len returns the number of real entries, not counting the placeholder.
func (r Roster) Len() int {
	if len(r.Entries) == 1 && r.Entries[0].Kind == KindPlaceholder {
		return 0
	}
	return len(r.Entries)
}

// FilterInvitable drops candidates whose account already appears in the
// roster, either as a member or as a pending invitation.
func FilterInvitable(candidates []Account, r Roster) []Account {
	existing := make(map[string]struct{}, len(r.MemberAccountIDs))
	for _, id := range r.MemberAccountIDs {
		if id != nil {
			existing[*id] = struct{}{}
		}
	}
	out := make([]Account, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := existing[c.ID]; ok {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Reconciler memoizes Reconcile on the identity of its inputs: a call with
// the same member and invitation slices as the previous call returns the
// previous roster without recomputing.
type Reconciler struct {
	last memo.Pair[MemberRecord, InvitationRecord, Roster]
}

// NewReconciler creates an empty Reconciler.
func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// Reconcile returns the roster for the inputs and whether it came from cache.
func (r *Reconciler) Reconcile(members []MemberRecord, invitations []InvitationRecord) (Roster, bool) {
	return r.last.Get(members, invitations, Reconcile)
}
