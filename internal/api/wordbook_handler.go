package api

import (
	"log/slog"
	"net/http"

	"github.com/PengWorks1114/vocabularydb/internal/api/shared"
	"github.com/PengWorks1114/vocabularydb/internal/platform/logger"
	"github.com/PengWorks1114/vocabularydb/internal/service"
)

// WordbookHandler handles wordbook-related HTTP requests.
type WordbookHandler struct {
	wordbookService service.WordbookService
	logger          *slog.Logger
}

// NewWordbookHandler creates a new WordbookHandler.
func NewWordbookHandler(
	wordbookService service.WordbookService,
	log *slog.Logger,
) *WordbookHandler {
	if wordbookService == nil {
		panic("wordbookService cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &WordbookHandler{
		wordbookService: wordbookService,
		logger:          log.With(slog.String("component", "wordbook_handler")),
	}
}

// Create handles POST /wordbooks requests.
func (h *WordbookHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req WordbookRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	book, err := h.wordbookService.CreateWordbook(r.Context(), userID, req.Name)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("wordbook created", slog.String("wordbook_id", book.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, book)
}

// List handles GET /wordbooks requests.
func (h *WordbookHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	books, err := h.wordbookService.ListWordbooks(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, books)
}

// Get handles GET /wordbooks/{id} requests.
func (h *WordbookHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, bookID, ok := requireUserAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	book, err := h.wordbookService.GetWordbook(r.Context(), userID, bookID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, book)
}

// Rename handles PUT /wordbooks/{id} requests.
func (h *WordbookHandler) Rename(w http.ResponseWriter, r *http.Request) {
	userID, bookID, ok := requireUserAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req WordbookRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	book, err := h.wordbookService.RenameWordbook(r.Context(), userID, bookID, req.Name)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, book)
}

// Delete handles DELETE /wordbooks/{id} requests.
func (h *WordbookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, bookID, ok := requireUserAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.wordbookService.DeleteWordbook(r.Context(), userID, bookID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
