package repositories

import (
	"context"
	"errors"

	"github.com/hatif03/prepwise/internal/models"
)

// ErrNotFound is returned when a record does not exist in the store.
var ErrNotFound = errors.New("record not found")

// InterviewRepository is the query surface the core consumes for interview
// definitions. Implementations mint the id and stamp finalized/createdAt on
// Create.
type InterviewRepository interface {
	GetByID(ctx context.Context, id string) (*models.Interview, error)
	ListByUser(ctx context.Context, userID string) ([]models.Interview, error)
	// ListFinalizedAvailable returns finalized interviews newest first,
	// optionally excluding one owner. The finalized filter is applied after
	// retrieval over a bounded fetch, so at most MaxAvailable records come
	// back even when more exist.
	ListFinalizedAvailable(ctx context.Context, excludingUserID string) ([]models.Interview, error)
	Create(ctx context.Context, interview *models.Interview) (string, error)
}

// FeedbackRepository persists assessment records. Upsert is
// last-write-wins by id.
type FeedbackRepository interface {
	Upsert(ctx context.Context, feedback *models.Feedback) error
	GetByInterviewAndUser(ctx context.Context, interviewID, userID string) (*models.Feedback, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Bounds on the finalized-available listing: fetch at most AvailableFetchLimit
// newest records, return at most MaxAvailable after filtering.
const (
	AvailableFetchLimit = 100
	MaxAvailable        = 50
)
