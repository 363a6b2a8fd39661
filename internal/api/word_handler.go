package api

import (
	"log/slog"
	"net/http"

	"github.com/PengWorks1114/vocabularydb/internal/api/shared"
	"github.com/PengWorks1114/vocabularydb/internal/platform/logger"
	"github.com/PengWorks1114/vocabularydb/internal/service"
)

// WordHandler handles word-related HTTP requests.
type WordHandler struct {
	wordService service.WordService
	logger      *slog.Logger
}

// NewWordHandler creates a new WordHandler.
func NewWordHandler(wordService service.WordService, log *slog.Logger) *WordHandler {
	if wordService == nil {
		panic("wordService cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &WordHandler{
		wordService: wordService,
		logger:      log.With(slog.String("component", "word_handler")),
	}
}

func wordInputFromRequest(req WordRequest) service.WordInput {
	return service.WordInput{
		Headword:           req.Headword,
		Translation:        req.Translation,
		Pronunciation:      req.Pronunciation,
		PartOfSpeech:       req.PartOfSpeech,
		Example:            req.Example,
		ExampleTranslation: req.ExampleTranslation,
		FrequencyRank:      req.FrequencyRank,
		Favorite:           req.Favorite,
		Note:               req.Note,
	}
}

// Create handles POST /wordbooks/{id}/words requests.
func (h *WordHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, bookID, ok := requireUserAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req WordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	word, err := h.wordService.CreateWord(r.Context(), userID, bookID, wordInputFromRequest(req))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("word created",
		slog.String("word_id", word.ID.String()),
		slog.String("wordbook_id", bookID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, word)
}

// ListByWordbook handles GET /wordbooks/{id}/words requests.
func (h *WordHandler) ListByWordbook(w http.ResponseWriter, r *http.Request) {
	userID, bookID, ok := requireUserAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	words, err := h.wordService.ListWords(r.Context(), userID, bookID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, words)
}

// Get handles GET /words/{id} requests.
func (h *WordHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, wordID, ok := requireUserAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	word, err := h.wordService.GetWord(r.Context(), userID, wordID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, word)
}

// Update handles PUT /words/{id} requests.
func (h *WordHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, wordID, ok := requireUserAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req WordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	word, err := h.wordService.UpdateWord(r.Context(), userID, wordID, wordInputFromRequest(req))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, word)
}

// SetFavorite handles PATCH /words/{id}/favorite requests.
func (h *WordHandler) SetFavorite(w http.ResponseWriter, r *http.Request) {
	userID, wordID, ok := requireUserAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req FavoriteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	word, err := h.wordService.SetFavorite(r.Context(), userID, wordID, req.Favorite)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, word)
}

// Delete handles DELETE /words/{id} requests.
func (h *WordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, wordID, ok := requireUserAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	if err := h.wordService.DeleteWord(r.Context(), userID, wordID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GenerateExample handles POST /words/{id}/example requests.
func (h *WordHandler) GenerateExample(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, wordID, ok := requireUserAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	word, err := h.wordService.GenerateExample(r.Context(), userID, wordID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("example generated", slog.String("word_id", wordID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, word)
}

// QueueExamples handles POST /wordbooks/{id}/examples requests. Generation
// runs in the background; the response only reports how many jobs were
// queued.
func (h *WordHandler) QueueExamples(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, bookID, ok := requireUserAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}

	queued, err := h.wordService.QueueExamples(r.Context(), userID, bookID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("example generation queued",
		slog.String("wordbook_id", bookID.String()),
		slog.Int("queued", queued))
	shared.RespondWithJSON(w, r, http.StatusAccepted, QueueExamplesResponse{Queued: queued})
}
