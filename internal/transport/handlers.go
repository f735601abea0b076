package transport

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rpggio/hostboard/internal/domain/fees"
	"github.com/rpggio/hostboard/internal/domain/roster"
)

// RosterService defines roster operations needed by the HTTP API.
type RosterService interface {
	Load(ctx context.Context, accountSlug string) (*roster.View, error)
	CheckRemoval(ctx context.Context, accountSlug, entryKey string) (*roster.RemovalCheck, error)
}

// FeeService defines fee operations needed by the HTTP API.
type FeeService interface {
	Years(ctx context.Context, hostSlug string) (*fees.YearsView, error)
	Series(ctx context.Context, req fees.SeriesRequest) (*fees.SeriesView, error)
}

type slugParams struct {
	Slug string `uri:"slug" validate:"required,max=255"`
}

type removalParams struct {
	Slug string `uri:"slug" validate:"required,max=255"`
	Key  string `uri:"key" validate:"required,max=255"`
}

type feesQuery struct {
	Year   int    `form:"year" validate:"omitempty,min=1900,max=9999"`
	Locale string `form:"locale" validate:"max=64"`
}

// RosterHandler serves roster endpoints.
type RosterHandler struct {
	rosters RosterService
}

func NewRosterHandler(rosters RosterService) *RosterHandler {
	return &RosterHandler{rosters: rosters}
}

// GetRoster returns the reconciled roster of an account, or its parent slug
// when membership is delegated.
func (h *RosterHandler) GetRoster(c *gin.Context) {
	var params slugParams
	if !bindURI(c, &params) {
		return
	}

	view, err := h.rosters.Load(c.Request.Context(), params.Slug)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// CheckRemoval reports whether removing an entry would remove the last admin.
func (h *RosterHandler) CheckRemoval(c *gin.Context) {
	var params removalParams
	if !bindURI(c, &params) {
		return
	}

	check, err := h.rosters.CheckRemoval(c.Request.Context(), params.Slug, params.Key)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, check)
}

// FeeHandler serves fee endpoints.
type FeeHandler struct {
	fees FeeService
}

func NewFeeHandler(fees FeeService) *FeeHandler {
	return &FeeHandler{fees: fees}
}

// ListYears returns the years a host can be charted for.
func (h *FeeHandler) ListYears(c *gin.Context) {
	var params slugParams
	if !bindURI(c, &params) {
		return
	}

	view, err := h.fees.Years(c.Request.Context(), params.Slug)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetSeries returns the fee series and chart of one host year. The locale
// comes from the locale query parameter, else from Accept-Language.
func (h *FeeHandler) GetSeries(c *gin.Context) {
	var params slugParams
	if !bindURI(c, &params) {
		return
	}

	var query feesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondWithValidationError(c, []ValidationError{{Field: "year", Message: "Value must be a number", Type: "number"}})
		return
	}
	if validationErrors := ValidateRequest(query); validationErrors != nil {
		RespondWithValidationError(c, validationErrors)
		return
	}

	locale := query.Locale
	if locale == "" {
		locale = c.GetHeader("Accept-Language")
	}

	view, err := h.fees.Series(c.Request.Context(), fees.SeriesRequest{
		HostSlug: params.Slug,
		Year:     query.Year,
		Locale:   locale,
	})
	if err != nil {
		RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func bindURI(c *gin.Context, obj any) bool {
	if err := c.ShouldBindUri(obj); err != nil {
		RespondWithValidationError(c, []ValidationError{{Message: err.Error(), Type: "uri"}})
		return false
	}
	if validationErrors := ValidateRequest(obj); validationErrors != nil {
		RespondWithValidationError(c, validationErrors)
		return false
	}
	return true
}
