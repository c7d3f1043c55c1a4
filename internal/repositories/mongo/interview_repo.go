package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hatif03/prepwise/internal/models"
	"github.com/hatif03/prepwise/internal/repositories"
)

// InterviewRepo wraps the interviews collection.
type InterviewRepo struct{ col *mongo.Collection }

func NewInterviewRepo(c *Client, dbName string) (*InterviewRepo, error) {
	db, err := c.DB(dbName)
	if err != nil {
		return nil, err
	}
	return &InterviewRepo{col: db.Collection("interviews")}, nil
}

func (r *InterviewRepo) GetByID(ctx context.Context, id string) (*models.Interview, error) {
	var interview models.Interview
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&interview)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &interview, nil
}

func (r *InterviewRepo) ListByUser(ctx context.Context, userID string) ([]models.Interview, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Interview
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListFinalizedAvailable fetches the newest records without a finalized
// predicate and filters in memory. Keeping the store query to a plain sort
// avoids a compound index; the fetch is bounded so the filter stays cheap.
func (r *InterviewRepo) ListFinalizedAvailable(ctx context.Context, excludingUserID string) ([]models.Interview, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(repositories.AvailableFetchLimit)
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var fetched []models.Interview
	if err := cur.All(ctx, &fetched); err != nil {
		return nil, err
	}

	out := make([]models.Interview, 0, len(fetched))
	for _, interview := range fetched {
		if !interview.Finalized {
			continue
		}
		if excludingUserID != "" && interview.UserID == excludingUserID {
			continue
		}
		out = append(out, interview)
		if len(out) == repositories.MaxAvailable {
			break
		}
	}
	return out, nil
}

func (r *InterviewRepo) Create(ctx context.Context, interview *models.Interview) (string, error) {
	if interview.ID == "" {
		interview.ID = uuid.New().String()
	}
	interview.Finalized = true
	interview.CreatedAt = time.Now().UTC()
	if _, err := r.col.InsertOne(ctx, interview); err != nil {
		return "", err
	}
	return interview.ID, nil
}
