package review

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
	"github.com/PengWorks1114/vocabularydb/internal/store"
)

// WordRepository is the slice of word persistence the review flow needs. It
// also carries the database handle that anchors transactions.
type WordRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error)
	ListByWordbook(ctx context.Context, wordbookID uuid.UUID) ([]*domain.Word, error)
	UpdateMastery(ctx context.Context, word *domain.Word) error

	// WithTx returns a new repository instance that uses the provided transaction.
	WithTx(tx *sql.Tx) WordRepository

	// DB returns the underlying database connection.
	DB() *sql.DB
}

// WordbookRepository resolves wordbook ownership.
type WordbookRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wordbook, error)
}

// ScheduleRepository is the slice of schedule persistence the review flow
// needs.
type ScheduleRepository interface {
	Get(ctx context.Context, wordID, userID uuid.UUID) (*domain.WordSchedule, error)
	CreateIfAbsent(ctx context.Context, schedule *domain.WordSchedule) (*domain.WordSchedule, error)
	Update(ctx context.Context, schedule *domain.WordSchedule) error
	Delete(ctx context.Context, wordID, userID uuid.UUID) error
	ListDue(
		ctx context.Context,
		wordbookID, userID uuid.UUID,
		dueBy time.Time,
		limit int,
	) ([]*domain.WordSchedule, error)
	ListForWordbook(
		ctx context.Context,
		wordbookID, userID uuid.UUID,
	) ([]*domain.WordSchedule, error)

	WithTx(tx *sql.Tx) ScheduleRepository
}

// WordCacheInvalidator evicts a wordbook's cached word listing after this
// service mutates word rows behind the cache's back. A nil invalidator is
// valid when no cache fronts word reads.
type WordCacheInvalidator interface {
	InvalidateWordCache(wordbookID uuid.UUID)
}

// ReviewLogRepository appends review history entries.
type ReviewLogRepository interface {
	Create(ctx context.Context, log *domain.ReviewLog) error

	WithTx(tx *sql.Tx) ReviewLogRepository
}

// NewWordRepositoryAdapter adapts a store.WordStore to the WordRepository
// interface.
func NewWordRepositoryAdapter(wordStore store.WordStore, db *sql.DB) WordRepository {
	return &wordRepositoryAdapter{wordStore: wordStore, db: db}
}

type wordRepositoryAdapter struct {
	wordStore store.WordStore
	db        *sql.DB
}

func (a *wordRepositoryAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	return a.wordStore.GetByID(ctx, id)
}

func (a *wordRepositoryAdapter) ListByWordbook(
	ctx context.Context,
	wordbookID uuid.UUID,
) ([]*domain.Word, error) {
	return a.wordStore.ListByWordbook(ctx, wordbookID)
}

func (a *wordRepositoryAdapter) UpdateMastery(ctx context.Context, word *domain.Word) error {
	return a.wordStore.UpdateMastery(ctx, word)
}

func (a *wordRepositoryAdapter) WithTx(tx *sql.Tx) WordRepository {
	return &wordRepositoryAdapter{wordStore: a.wordStore.WithTx(tx), db: a.db}
}

func (a *wordRepositoryAdapter) DB() *sql.DB {
	return a.db
}

// NewScheduleRepositoryAdapter adapts a store.ScheduleStore to the
// ScheduleRepository interface.
func NewScheduleRepositoryAdapter(scheduleStore store.ScheduleStore) ScheduleRepository {
	return &scheduleRepositoryAdapter{scheduleStore: scheduleStore}
}

type scheduleRepositoryAdapter struct {
	scheduleStore store.ScheduleStore
}

func (a *scheduleRepositoryAdapter) Get(
	ctx context.Context,
	wordID, userID uuid.UUID,
) (*domain.WordSchedule, error) {
	return a.scheduleStore.Get(ctx, wordID, userID)
}

func (a *scheduleRepositoryAdapter) CreateIfAbsent(
	ctx context.Context,
	schedule *domain.WordSchedule,
) (*domain.WordSchedule, error) {
	return a.scheduleStore.CreateIfAbsent(ctx, schedule)
}

func (a *scheduleRepositoryAdapter) Update(ctx context.Context, schedule *domain.WordSchedule) error {
	return a.scheduleStore.Update(ctx, schedule)
}

func (a *scheduleRepositoryAdapter) Delete(ctx context.Context, wordID, userID uuid.UUID) error {
	return a.scheduleStore.Delete(ctx, wordID, userID)
}

func (a *scheduleRepositoryAdapter) ListDue(
	ctx context.Context,
	wordbookID, userID uuid.UUID,
	dueBy time.Time,
	limit int,
) ([]*domain.WordSchedule, error) {
	return a.scheduleStore.ListDue(ctx, wordbookID, userID, dueBy, limit)
}

func (a *scheduleRepositoryAdapter) ListForWordbook(
	ctx context.Context,
	wordbookID, userID uuid.UUID,
) ([]*domain.WordSchedule, error) {
	return a.scheduleStore.ListForWordbook(ctx, wordbookID, userID)
}

func (a *scheduleRepositoryAdapter) WithTx(tx *sql.Tx) ScheduleRepository {
	return &scheduleRepositoryAdapter{scheduleStore: a.scheduleStore.WithTx(tx)}
}

// NewReviewLogRepositoryAdapter adapts a store.ReviewLogStore to the
// ReviewLogRepository interface.
func NewReviewLogRepositoryAdapter(logStore store.ReviewLogStore) ReviewLogRepository {
	return &reviewLogRepositoryAdapter{logStore: logStore}
}

type reviewLogRepositoryAdapter struct {
	logStore store.ReviewLogStore
}

func (a *reviewLogRepositoryAdapter) Create(ctx context.Context, log *domain.ReviewLog) error {
	return a.logStore.Create(ctx, log)
}

func (a *reviewLogRepositoryAdapter) WithTx(tx *sql.Tx) ReviewLogRepository {
	return &reviewLogRepositoryAdapter{logStore: a.logStore.WithTx(tx)}
}
