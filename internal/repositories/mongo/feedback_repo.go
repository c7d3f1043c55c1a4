package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hatif03/prepwise/internal/models"
	"github.com/hatif03/prepwise/internal/repositories"
)

// FeedbackRepo wraps the feedback collection.
type FeedbackRepo struct{ col *mongo.Collection }

func NewFeedbackRepo(c *Client, dbName string) (*FeedbackRepo, error) {
	db, err := c.DB(dbName)
	if err != nil {
		return nil, err
	}
	return &FeedbackRepo{col: db.Collection("feedback")}, nil
}

// Upsert replaces the record at feedback.ID, creating it when absent.
// Last write for a given id wins.
func (r *FeedbackRepo) Upsert(ctx context.Context, feedback *models.Feedback) error {
	if feedback.ID == "" {
		return errors.New("feedback id is required")
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": feedback.ID}, feedback, opts)
	return err
}

// GetByInterviewAndUser returns the newest feedback for the pair, which the
// UI treats as canonical.
func (r *FeedbackRepo) GetByInterviewAndUser(ctx context.Context, interviewID, userID string) (*models.Feedback, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	var feedback models.Feedback
	err := r.col.FindOne(ctx, bson.M{"interviewId": interviewID, "userId": userID}, opts).Decode(&feedback)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}
