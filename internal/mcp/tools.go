package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/hostboard/internal/domain/fees"
	"github.com/rpggio/hostboard/internal/domain/roster"
)

type getRosterInput struct {
	AccountSlug string `json:"account_slug" jsonschema:"slug of the collective, event or project"`
}

type checkRemovalInput struct {
	AccountSlug string `json:"account_slug" jsonschema:"slug of the account owning the roster"`
	EntryKey    string `json:"entry_key" jsonschema:"roster entry key, e.g. member-42 or collective-7"`
}

type filterInvitableInput struct {
	AccountSlug string           `json:"account_slug" jsonschema:"slug of the account owning the roster"`
	Candidates  []roster.Account `json:"candidates" jsonschema:"accounts that could be invited"`
}

type listFeeYearsInput struct {
	HostSlug string `json:"host_slug" jsonschema:"slug of the fiscal host"`
}

type getFeeSeriesInput struct {
	HostSlug string `json:"host_slug" jsonschema:"slug of the fiscal host"`
	Year     int    `json:"year,omitempty" jsonschema:"calendar year, defaults to the current year"`
	Locale   string `json:"locale,omitempty" jsonschema:"BCP 47 locale for labels, e.g. en-US or fr"`
}

type invitableResult struct {
	AccountSlug string           `json:"account_slug"`
	Invitable   []roster.Account `json:"invitable"`
}

type toolDeps struct {
	services Services
	locale   string
	logger   *slog.Logger
}

// registerTools adds every tool whose service is configured.
func registerTools(server *sdkmcp.Server, cfg Config) {
	d := &toolDeps{services: cfg.Services, locale: cfg.Locale, logger: cfg.Logger}

	if cfg.Services.Rosters != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "get_roster",
			Description: "Get the reconciled member roster of an account: confirmed members, pending invitations and the admin count",
		}, d.getRoster)
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "check_removal",
			Description: "Check whether removing or demoting a roster entry would remove the account's last admin",
		}, d.checkRemoval)
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "filter_invitable",
			Description: "Drop candidate accounts that are already members or already invited",
		}, d.filterInvitable)
	}

	if cfg.Services.Fees != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "list_fee_years",
			Description: "List the years a host's fee series can be charted for, oldest first",
		}, d.listFeeYears)
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "get_fee_series",
			Description: "Get monthly net profit and fee-share settlement series of a host for one year",
		}, d.getFeeSeries)
	}
}

func (d *toolDeps) getRoster(ctx context.Context, _ *sdkmcp.CallToolRequest, in getRosterInput) (*sdkmcp.CallToolResult, any, error) {
	view, err := d.services.Rosters.Load(ctx, in.AccountSlug)
	if err != nil {
		return nil, nil, toolError(err)
	}
	d.logCall(ctx, "get_roster", "account", in.AccountSlug)
	return jsonResult(view)
}

func (d *toolDeps) checkRemoval(ctx context.Context, _ *sdkmcp.CallToolRequest, in checkRemovalInput) (*sdkmcp.CallToolResult, any, error) {
	check, err := d.services.Rosters.CheckRemoval(ctx, in.AccountSlug, in.EntryKey)
	if err != nil {
		return nil, nil, toolError(err)
	}
	d.logCall(ctx, "check_removal", "account", in.AccountSlug, "entry", in.EntryKey, "last_admin", check.IsLastAdmin)
	return jsonResult(check)
}

func (d *toolDeps) filterInvitable(ctx context.Context, _ *sdkmcp.CallToolRequest, in filterInvitableInput) (*sdkmcp.CallToolResult, any, error) {
	view, err := d.services.Rosters.Load(ctx, in.AccountSlug)
	if err != nil {
		return nil, nil, toolError(err)
	}
	if view.Delegated() {
		return nil, nil, toolError(roster.ErrDelegated)
	}
	invitable := roster.FilterInvitable(in.Candidates, *view.Roster)
	d.logCall(ctx, "filter_invitable", "account", in.AccountSlug, "candidates", len(in.Candidates), "invitable", len(invitable))
	return jsonResult(invitableResult{AccountSlug: view.AccountSlug, Invitable: invitable})
}

func (d *toolDeps) listFeeYears(ctx context.Context, _ *sdkmcp.CallToolRequest, in listFeeYearsInput) (*sdkmcp.CallToolResult, any, error) {
	view, err := d.services.Fees.Years(ctx, in.HostSlug)
	if err != nil {
		return nil, nil, toolError(err)
	}
	d.logCall(ctx, "list_fee_years", "host", in.HostSlug, "years", len(view.Years))
	return jsonResult(view)
}

func (d *toolDeps) getFeeSeries(ctx context.Context, _ *sdkmcp.CallToolRequest, in getFeeSeriesInput) (*sdkmcp.CallToolResult, any, error) {
	locale := in.Locale
	if locale == "" {
		locale = d.locale
	}
	view, err := d.services.Fees.Series(ctx, fees.SeriesRequest{HostSlug: in.HostSlug, Year: in.Year, Locale: locale})
	if err != nil {
		return nil, nil, toolError(err)
	}
	d.logCall(ctx, "get_fee_series", "host", in.HostSlug, "year", view.Series.Year, "locale", locale)
	return jsonResult(view)
}

func (d *toolDeps) logCall(ctx context.Context, tool string, attrs ...any) {
	d.logger.Debug("mcp tool call", append([]any{"tool", tool, "session_id", getSessionID(ctx)}, attrs...)...)
}

// jsonResult returns v as indented JSON text content.
func jsonResult(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}
