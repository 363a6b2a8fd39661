package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/PengWorks1114/vocabularydb/internal/api/shared"
	"github.com/PengWorks1114/vocabularydb/internal/service"
)

// StatsHandler handles review statistics HTTP requests.
type StatsHandler struct {
	statsService service.StatsService
	logger       *slog.Logger
	now          func() time.Time
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService service.StatsService, log *slog.Logger) *StatsHandler {
	if statsService == nil {
		panic("statsService cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &StatsHandler{
		statsService: statsService,
		logger:       log.With(slog.String("component", "stats_handler")),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// DailyStats handles GET /stats/daily requests. Optional from and to query
// parameters (RFC 3339 dates) bound the range; the default is the last 30
// days.
func (h *StatsHandler) DailyStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	now := h.now()
	from := now.AddDate(0, 0, -30)
	to := now

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid from date")
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid to date")
			return
		}
		// Include the whole "to" day.
		to = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	counts, err := h.statsService.DailyReviewStats(r.Context(), userID, from, to)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	out := make([]DailyStatsResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, DailyStatsResponse{
			Day:     c.Day.Format("2006-01-02"),
			Reviews: c.Reviews,
			Correct: c.Correct,
		})
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// WordHistory handles GET /words/{id}/history requests.
func (h *StatsHandler) WordHistory(w http.ResponseWriter, r *http.Request) {
	userID, wordID, ok := requireUserAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	history, err := h.statsService.WordReviewHistory(r.Context(), userID, wordID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, history)
}
