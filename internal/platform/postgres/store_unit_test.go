package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/PengWorks1114/vocabularydb/internal/domain"
)

// unreachableDB is a DBTX that fails the test if any query reaches it.
// Used to prove that invalid entities are rejected before touching the
// database.
type unreachableDB struct {
	t *testing.T
}

func (d unreachableDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	d.t.Fatal("unexpected ExecContext call")
	return nil, nil
}

func (d unreachableDB) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	d.t.Fatal("unexpected PrepareContext call")
	return nil, nil
}

func (d unreachableDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	d.t.Fatal("unexpected QueryContext call")
	return nil, nil
}

func (d unreachableDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	d.t.Fatal("unexpected QueryRowContext call")
	return nil
}

func TestConstructorsRejectNilDB(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewUserStore(nil, 0, nil) })
	assert.Panics(t, func() { NewWordbookStore(nil, nil) })
	assert.Panics(t, func() { NewWordStore(nil, nil) })
	assert.Panics(t, func() { NewScheduleStore(nil, nil) })
	assert.Panics(t, func() { NewReviewLogStore(nil, nil) })
}

func TestValidationRunsBeforeQueries(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := unreachableDB{t: t}

	userStore := NewUserStore(db, 0, nil)
	err := userStore.Create(ctx, &domain.User{ID: uuid.New(), Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	wordbookStore := NewWordbookStore(db, nil)
	err = wordbookStore.Create(ctx, &domain.Wordbook{ID: uuid.New(), UserID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrEmptyWordbookName)

	wordStore := NewWordStore(db, nil)
	err = wordStore.Create(ctx, &domain.Word{ID: uuid.New(), WordbookID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrEmptyHeadword)

	scheduleStore := NewScheduleStore(db, nil)
	err = scheduleStore.Create(ctx, &domain.WordSchedule{})
	assert.Error(t, err)

	logStore := NewReviewLogStore(db, nil)
	err = logStore.Create(ctx, &domain.ReviewLog{
		ID:         uuid.New(),
		WordID:     uuid.New(),
		UserID:     uuid.New(),
		ReviewedAt: time.Now().UTC(),
		Grade:      domain.ReviewGrade(9),
	})
	assert.Error(t, err)
}

func TestComparePassword(t *testing.T) {
	t.Parallel()

	user, err := domain.NewUser("learner@example.com", "correct-horse-battery")
	require.NoError(t, err)

	// Min cost keeps the test fast; the comparison path is identical.
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.MinCost)
	require.NoError(t, err)
	user.HashedPassword = string(hashed)

	assert.NoError(t, ComparePassword(user, "correct-horse-battery"))
	assert.ErrorIs(t, ComparePassword(user, "wrong-password"), domain.ErrUnauthorized)
}
