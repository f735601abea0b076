package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `hostboard answers two questions about Open Collective style accounts.

Rosters:
- get_roster(account_slug) returns confirmed members first, then pending invitations, with the admin count.
  If parent_slug is set the roster is managed by that parent account; query the parent instead.
- check_removal(account_slug, entry_key) tells whether an entry is the last admin. Never suggest removing or demoting the last admin.
- filter_invitable(account_slug, candidates) drops accounts that are already members or already invited.

Fees:
- list_fee_years(host_slug) lists the years since the host was created, oldest first.
- get_fee_series(host_slug, year, locale) returns 12 monthly values per series: NET_PROFIT first, then one series per settlement status.

Docs:
- hostboard://docs/roster
- hostboard://docs/fees
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "hostboard://docs/roster",
		Name:        "docs_roster",
		Title:       "Roster reconciliation",
		Description: "How members and invitations are merged into one roster.",
		Content: `# Roster reconciliation

Entries are ordered: confirmed members in source order, then pending invitations in source order.

- Confirmed entry key: member-<membership id>. It carries the membership id.
- Pending entry key: collective-<invited account id>. It never carries a membership id.
- An empty roster holds one placeholder entry, which counts for nothing.

admin_count counts confirmed ADMIN entries only. An entry is the last admin when it is a confirmed ADMIN
and admin_count is 1.
`,
	},
	{
		URI:         "hostboard://docs/fees",
		Name:        "docs_fees",
		Title:       "Fee series",
		Description: "How monthly host fee and settlement series are built.",
		Content: `# Fee series

Every series has 12 values, January first, in major currency units.

- NET_PROFIT for a month is host fees minus the sum of all settlement amounts of that month.
- One series per settlement status, sorted by status name.
- Months are calendar months in UTC.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
