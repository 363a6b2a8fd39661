package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/PengWorks1114/vocabularydb/internal/api/shared"
	"github.com/PengWorks1114/vocabularydb/internal/domain"
	"github.com/PengWorks1114/vocabularydb/internal/service/study"
	"github.com/PengWorks1114/vocabularydb/internal/session"
)

// StudyHandler handles casual-study HTTP requests.
type StudyHandler struct {
	studyService study.Service
	logger       *slog.Logger
	now          func() time.Time
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(studyService study.Service, log *slog.Logger) *StudyHandler {
	if studyService == nil {
		panic("studyService cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &StudyHandler{
		studyService: studyService,
		logger:       log.With(slog.String("component", "study_handler")),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// DrawSession handles POST /wordbooks/{id}/session requests.
func (h *StudyHandler) DrawSession(w http.ResponseWriter, r *http.Request) {
	userID, bookID, ok := requireUserAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req DrawSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	mode := session.Mode(req.Mode)
	if req.Mode == "" {
		mode = session.ModeRandom
	}
	direction := session.Direction(req.Direction)
	if req.Direction == "" {
		direction = session.DirectionHeadwordToTranslation
	}

	words, err := h.studyService.DrawSession(
		r.Context(), userID, bookID, req.Count, mode, direction, req.DueOnly,
	)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, words)
}

// RecordStudy handles POST /words/{id}/study requests.
func (h *StudyHandler) RecordStudy(w http.ResponseWriter, r *http.Request) {
	userID, wordID, ok := requireUserAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req RecordStudyRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	word, err := h.studyService.RecordStudy(
		r.Context(), userID, wordID, domain.RecallResponse(req.Response), h.now(),
	)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, word)
}
