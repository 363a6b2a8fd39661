package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/PengWorks1114/vocabularydb/internal/api/shared"
	"github.com/PengWorks1114/vocabularydb/internal/domain"
	"github.com/PengWorks1114/vocabularydb/internal/platform/logger"
	"github.com/PengWorks1114/vocabularydb/internal/service/review"
)

// ReviewHandler handles scheduled-review HTTP requests.
type ReviewHandler struct {
	reviewService review.Service
	logger        *slog.Logger
	// now is injectable for tests.
	now func() time.Time
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService review.Service, log *slog.Logger) *ReviewHandler {
	if reviewService == nil {
		panic("reviewService cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ReviewHandler{
		reviewService: reviewService,
		logger:        log.With(slog.String("component", "review_handler")),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// GetDueWords handles GET /wordbooks/{id}/review/due requests. An optional
// limit query parameter caps the result.
func (h *ReviewHandler) GetDueWords(w http.ResponseWriter, r *http.Request) {
	userID, bookID, ok := requireUserAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	due, err := h.reviewService.GetDueWords(r.Context(), userID, bookID, h.now(), limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	out := make([]DueWordResponse, 0, len(due))
	for _, d := range due {
		out = append(out, DueWordResponse{
			Word:     d.Word,
			Schedule: NewScheduleResponse(d.Schedule),
		})
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// SubmitAnswer handles POST /words/{id}/review requests.
func (h *ReviewHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, wordID, ok := requireUserAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	result, err := h.reviewService.SubmitAnswer(
		r.Context(), userID, wordID, domain.ReviewGrade(req.Grade), h.now(),
	)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("review answer submitted",
		slog.String("word_id", wordID.String()),
		slog.Int("grade", req.Grade))
	shared.RespondWithJSON(w, r, http.StatusOK, ReviewResultResponse{
		Word:     result.Word,
		Schedule: NewScheduleResponse(result.Schedule),
	})
}

// GetSchedule handles GET /words/{id}/schedule requests.
func (h *ReviewHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	userID, wordID, ok := requireUserAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	schedule, err := h.reviewService.GetSchedule(r.Context(), userID, wordID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewScheduleResponse(schedule))
}

// DeleteSchedule handles DELETE /words/{id}/schedule requests. The word's
// mastery and history are kept; only the scheduling state goes.
func (h *ReviewHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	userID, wordID, ok := requireUserAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.reviewService.DeleteSchedule(r.Context(), userID, wordID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Postpone handles POST /words/{id}/postpone requests.
func (h *ReviewHandler) Postpone(w http.ResponseWriter, r *http.Request) {
	userID, wordID, ok := requireUserAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req PostponeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	schedule, err := h.reviewService.Postpone(r.Context(), userID, wordID, req.Days, h.now())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewScheduleResponse(schedule))
}

// ResetProgress handles POST /words/{id}/reset requests.
func (h *ReviewHandler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, wordID, ok := requireUserAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.reviewService.ResetProgress(r.Context(), userID, wordID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("word progress reset", slog.String("word_id", wordID.String()))
	w.WriteHeader(http.StatusNoContent)
}
