package referrer

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"refguard/pkg/domain"
	dErrors "refguard/pkg/domain-errors"
)

// MongoStore keeps one stats document per referrer and mutates it only
// through $inc, so concurrent finalizations never clobber each other.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongo(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

func (s *MongoStore) Apply(ctx context.Context, referrerID domain.UserID, delta Delta) error {
	if delta.IsZero() {
		return nil
	}

	inc := bson.M{}
	if delta.Referred != 0 {
		inc["total_referred"] = delta.Referred
	}
	if delta.Verified != 0 {
		inc["total_verified"] = delta.Verified
	}
	if delta.Pending != 0 {
		inc["pending_verifications"] = delta.Pending
	}
	if delta.Blocked != 0 {
		inc["blocked_referrals"] = delta.Blocked
	}
	if delta.PaidConversions != 0 {
		inc["total_paid_conversions"] = delta.PaidConversions
	}

	update := bson.M{
		"$inc": inc,
		"$set": bson.M{"updated_at": time.Now()},
	}
	_, err := s.coll.UpdateByID(ctx, referrerID, update, options.Update().SetUpsert(true))
	return dErrors.Wrap(err, dErrors.CodeInternal, "apply referrer stats delta")
}

func (s *MongoStore) Get(ctx context.Context, referrerID domain.UserID) (*Stats, error) {
	var st Stats
	err := s.coll.FindOne(ctx, bson.M{"_id": referrerID}).Decode(&st)
	if err == mongo.ErrNoDocuments {
		return &Stats{ReferrerID: referrerID}, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load referrer stats")
	}
	return &st, nil
}
