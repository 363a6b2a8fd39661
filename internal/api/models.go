package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh
// endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// UpdateEmailRequest defines the payload for changing the account email.
type UpdateEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// UpdatePasswordRequest defines the payload for changing the account
// password.
type UpdatePasswordRequest struct {
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// WordbookRequest defines the payload for creating or renaming a wordbook.
type WordbookRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// WordRequest defines the payload for creating or updating a word.
type WordRequest struct {
	Headword           string `json:"headword"            validate:"required,max=500"`
	Translation        string `json:"translation"         validate:"max=2000"`
	Pronunciation      string `json:"pronunciation"       validate:"max=500"`
	PartOfSpeech       string `json:"part_of_speech"      validate:"max=100"`
	Example            string `json:"example"             validate:"max=2000"`
	ExampleTranslation string `json:"example_translation" validate:"max=2000"`
	FrequencyRank      int    `json:"frequency_rank"      validate:"gte=0"`
	Favorite           bool   `json:"favorite"`
	Note               string `json:"note"                validate:"max=5000"`
}

// FavoriteRequest defines the payload for toggling a word's favorite flag.
type FavoriteRequest struct {
	Favorite bool `json:"favorite"`
}

// SubmitReviewRequest defines the payload for grading a scheduled review.
type SubmitReviewRequest struct {
	// Grade is the review outcome: 0 fail, 1 hard, 2 good, 3 easy.
	Grade int `json:"grade" validate:"gte=0,lte=3"`
}

// PostponeRequest defines the payload for deferring a word's next review.
type PostponeRequest struct {
	Days int `json:"days" validate:"required,gte=1,lte=365"`
}

// DrawSessionRequest defines the payload for composing a study session.
type DrawSessionRequest struct {
	Count     int    `json:"count"     validate:"required,gte=1,lte=500"`
	Mode      string `json:"mode"      validate:"max=50"`
	Direction string `json:"direction" validate:"max=50"`
	// DueOnly restricts the draw to words whose schedule is currently due.
	DueOnly bool `json:"due_only"`
}

// RecordStudyRequest defines the payload for a casual recall answer.
type RecordStudyRequest struct {
	// Response is the learner's self-assessment: unknown, impression,
	// familiar, or memorized.
	Response string `json:"response" validate:"required,oneof=unknown impression familiar memorized"`
}

// QueueExamplesResponse reports how many generation jobs were queued for a
// wordbook.
type QueueExamplesResponse struct {
	Queued int `json:"queued"`
}

// ScheduleResponse represents a word's scheduling state.
type ScheduleResponse struct {
	WordID       uuid.UUID `json:"word_id"`
	Stage        int       `json:"stage"`
	IntervalDays int       `json:"interval_days"`
	DueAt        time.Time `json:"due_at"`
	Streak       int       `json:"streak"`
	Lapses       int       `json:"lapses"`
	Ease         float64   `json:"ease"`
}

// NewScheduleResponse converts a domain schedule into its API shape.
func NewScheduleResponse(s *domain.WordSchedule) ScheduleResponse {
	return ScheduleResponse{
		WordID:       s.WordID,
		Stage:        s.Stage,
		IntervalDays: s.IntervalDays,
		DueAt:        s.DueAt,
		Streak:       s.Streak,
		Lapses:       s.Lapses,
		Ease:         s.Ease,
	}
}

// DueWordResponse pairs a due word with its schedule.
type DueWordResponse struct {
	Word     *domain.Word     `json:"word"`
	Schedule ScheduleResponse `json:"schedule"`
}

// ReviewResultResponse is the outcome of a graded review.
type ReviewResultResponse struct {
	Word     *domain.Word     `json:"word"`
	Schedule ScheduleResponse `json:"schedule"`
}

// DailyStatsResponse is one day of review activity.
type DailyStatsResponse struct {
	Day     string `json:"day"`
	Reviews int    `json:"reviews"`
	Correct int    `json:"correct"`
}
