package ledger

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	verModels "refguard/internal/verification/models"
	"refguard/pkg/domain"
	dErrors "refguard/pkg/domain-errors"
)

// MongoStore persists tracked actions in the tracked_actions collection. A
// unique index on (user_id, action_id) makes the insert the idempotency
// barrier: the second delivery of an action hits a duplicate-key error and is
// reported as already counted.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongo(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// EnsureIndexes creates the uniqueness index the idempotency guarantee
// depends on. Call once at startup.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "action_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return dErrors.Wrap(err, dErrors.CodeInternal, "create tracked_actions index")
}

func (s *MongoStore) WasCounted(ctx context.Context, userID domain.UserID, actionID domain.ActionID) (bool, error) {
	filter := bson.M{"user_id": userID, "action_id": actionID}
	err := s.coll.FindOne(ctx, filter).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "query tracked action")
	}
	return true, nil
}

func (s *MongoStore) MarkCounted(ctx context.Context, userID domain.UserID, actionType domain.ItemKey, actionID domain.ActionID) (bool, int, error) {
	action := verModels.TrackedAction{
		UserID:     userID,
		ActionID:   actionID,
		ActionType: actionType,
		CountedAt:  time.Now(),
	}

	counted := true
	if _, err := s.coll.InsertOne(ctx, action); err != nil {
		if !mongo.IsDuplicateKeyError(err) {
			return false, 0, dErrors.Wrap(err, dErrors.CodeInternal, "insert tracked action")
		}
		counted = false
	}

	count, err := s.CountByType(ctx, userID, actionType)
	if err != nil {
		return counted, 0, err
	}
	return counted, count, nil
}

func (s *MongoStore) CountByType(ctx context.Context, userID domain.UserID, actionType domain.ItemKey) (int, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"user_id": userID, "action_type": actionType})
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "count tracked actions")
	}
	return int(n), nil
}
