package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/calendario-tech/review-console/internal/models"
	"github.com/calendario-tech/review-console/internal/repositories"
)

// Compile-time check to ensure SessionRepository implements the interface
var _ repositories.SessionRepository = (*SessionRepository)(nil)

// The console serves a single operator, so the session lives in one document
// with a fixed id.
const sessionDocID = "operator"

// SessionRepository handles MongoDB persistence for the operator session.
type SessionRepository struct {
	collection *mongo.Collection
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{
		collection: db.Collection("sessions"),
	}
}

// Load reads the stored session; a missing document is not an error.
func (r *SessionRepository) Load(ctx context.Context) (*models.Session, error) {
	var session models.Session
	filter := bson.M{"_id": sessionDocID}
	err := r.collection.FindOne(ctx, filter).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Save upserts the session document.
func (r *SessionRepository) Save(ctx context.Context, session *models.Session) error {
	session.ID = sessionDocID
	filter := bson.M{"_id": sessionDocID}
	update := bson.M{"$set": session}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// Clear removes the session document.
func (r *SessionRepository) Clear(ctx context.Context) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": sessionDocID})
	return err
}
