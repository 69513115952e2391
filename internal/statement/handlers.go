package statement

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/theater-billing/internal/billing"
	"github.com/noah-isme/theater-billing/internal/catalog"
	"github.com/noah-isme/theater-billing/internal/common"
	"github.com/noah-isme/theater-billing/internal/invoice"
	"github.com/noah-isme/theater-billing/internal/obs"
)

// LineResponse is a statement line in API payloads, the computed Line plus
// its display form.
type LineResponse struct {
	Line
	FormattedAmount string `json:"formattedAmount"`
}

// Response is the statement payload returned by the API.
type Response struct {
	ID                   string         `json:"id"`
	Customer             string         `json:"customer"`
	Lines                []LineResponse `json:"lines"`
	TotalAmount          billing.Money  `json:"totalAmount"`
	FormattedTotalAmount string         `json:"formattedTotalAmount"`
	TotalCredits         int64          `json:"totalCredits"`
	Statement            string         `json:"statement"`
}

// Handler exposes statement generation and the play catalog over HTTP.
type Handler struct {
	Generator Generator
	Cache     *Cache
	Logger    zerolog.Logger
}

// Generate handles POST /api/v1/statements.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	inv, err := invoice.Read(r.Body)
	if err != nil {
		common.WriteAppError(w, common.BadRequest("invalid invoice document", err))
		return
	}
	if err := inv.Validate(); err != nil {
		common.WriteAppError(w, common.BadRequest(err.Error(), err))
		return
	}

	ctx := r.Context()
	cacheKey := h.Cache.Key(inv)
	var cached Statement
	if found, err := h.Cache.Get(ctx, cacheKey, &cached); err == nil && found {
		obs.StatementsRendered.WithLabelValues("cache_hit").Inc()
		common.JSON(w, http.StatusOK, map[string]any{"data": h.respond(cached)})
		return
	}

	st, err := h.Generator.Build(inv)
	if err != nil {
		h.writeBillingError(w, err)
		return
	}
	if err := h.Cache.Set(ctx, cacheKey, st); err != nil {
		h.Logger.Warn().Err(err).Msg("cache statement")
	}
	obs.StatementsRendered.WithLabelValues("ok").Inc()
	obs.StatementPerformances.Observe(float64(len(st.Lines)))
	common.JSON(w, http.StatusOK, map[string]any{"data": h.respond(st)})
}

// Plays handles GET /api/v1/plays.
func (h *Handler) Plays(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Generator.Catalog.Plays()})
}

func (h *Handler) respond(st Statement) Response {
	lines := make([]LineResponse, 0, len(st.Lines))
	for _, line := range st.Lines {
		lines = append(lines, LineResponse{Line: line, FormattedAmount: FormatUSD(line.Amount)})
	}
	return Response{
		ID:                   uuid.NewString(),
		Customer:             st.Customer,
		Lines:                lines,
		TotalAmount:          st.TotalAmount,
		FormattedTotalAmount: FormatUSD(st.TotalAmount),
		TotalCredits:         st.TotalCredits,
		Statement:            st.Text(),
	}
}

func (h *Handler) writeBillingError(w http.ResponseWriter, err error) {
	obs.StatementsRendered.WithLabelValues("error").Inc()
	switch {
	case errors.Is(err, catalog.ErrUnknownPlay):
		common.WriteAppError(w, common.Unprocessable(common.CodeUnknownPlay, err.Error(), err))
	case errors.Is(err, billing.ErrUnknownGenre):
		common.WriteAppError(w, common.Unprocessable(common.CodeUnknownGenre, err.Error(), err))
	default:
		h.Logger.Error().Err(err).Msg("build statement")
		common.WriteAppError(w, err)
	}
}
