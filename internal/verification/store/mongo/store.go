// Package mongo persists verification records. State-changing updates are
// conditional on the expected prior state, so racing writers resolve to a
// single winner at the document level.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	platformmongo "refguard/internal/platform/mongo"
	"refguard/internal/verification/models"
	"refguard/internal/verification/ports"
	"refguard/pkg/domain"
	dErrors "refguard/pkg/domain-errors"
)

const collRecords = "verification_records"

// Store is the mongo-backed ports.RecordStore.
type Store struct {
	coll *mongo.Collection
}

// NewStore creates a record store over the given client's database.
func NewStore(client *platformmongo.Client) *Store {
	return &Store{coll: client.Collection(collRecords)}
}

// EnsureIndexes creates the sweep index. Call once at startup.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "signup_date", Value: 1}},
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "create verification indexes")
	}
	return nil
}

func (s *Store) Create(ctx context.Context, rec *models.VerificationRecord) error {
	if rec == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "nil verification record")
	}
	_, err := s.coll.InsertOne(ctx, rec)
	if mongo.IsDuplicateKeyError(err) {
		return dErrors.New(dErrors.CodeConflict, "verification record already exists")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "insert verification record")
	}
	return nil
}

func (s *Store) Get(ctx context.Context, userID domain.UserID) (*models.VerificationRecord, error) {
	var rec models.VerificationRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": userID.String()}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, dErrors.New(dErrors.CodeNotFound, "verification record not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "fetch verification record")
	}
	return &rec, nil
}

func (s *Store) SetItemCount(ctx context.Context, userID domain.UserID, key domain.ItemKey, count int) error {
	res, err := s.coll.UpdateByID(ctx, userID.String(), bson.M{
		"$max": bson.M{itemField(key, "current"): count},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "update item count")
	}
	if res.MatchedCount == 0 {
		return dErrors.New(dErrors.CodeNotFound, "verification record not found")
	}
	return nil
}

func (s *Store) AddInteractionPartner(ctx context.Context, userID domain.UserID, partner string) (int, error) {
	partnersField := itemField(domain.ItemInteractions, "partners")
	after := options.After
	var rec models.VerificationRecord
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": userID.String()},
		bson.M{
			"$addToSet": bson.M{partnersField: partner},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return 0, dErrors.New(dErrors.CodeNotFound, "verification record not found")
	}
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "add interaction partner")
	}

	count := len(rec.Item(domain.ItemInteractions).Partners)
	_, err = s.coll.UpdateByID(ctx, userID.String(), bson.M{
		"$max": bson.M{itemField(domain.ItemInteractions, "current"): count},
	})
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "update interaction count")
	}
	return count, nil
}

func (s *Store) MarkGroupJoined(ctx context.Context, userID domain.UserID, groupID domain.GroupID, at time.Time) (bool, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{
			"_id": userID.String(),
			itemField(domain.ItemGroupJoined, "completed"): false,
		},
		bson.M{"$set": bson.M{
			itemField(domain.ItemGroupJoined, "group_id"):     groupID.String(),
			itemField(domain.ItemGroupJoined, "current"):      1,
			itemField(domain.ItemGroupJoined, "completed"):    true,
			itemField(domain.ItemGroupJoined, "completed_at"): at,
			"updated_at": at,
		}},
	)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "mark group joined")
	}
	return s.applied(ctx, userID, res)
}

func (s *Store) CompleteItem(ctx context.Context, userID domain.UserID, key domain.ItemKey, at time.Time) (bool, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{
			"_id": userID.String(),
			itemField(key, "completed"): false,
		},
		bson.M{"$set": bson.M{
			itemField(key, "completed"):    true,
			itemField(key, "completed_at"): at,
			"updated_at":                   at,
		}},
	)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "complete checklist item")
	}
	return s.applied(ctx, userID, res)
}

func (s *Store) Finalize(ctx context.Context, userID domain.UserID, params ports.FinalizeParams) (bool, error) {
	set := bson.M{
		"fraud_score": params.FraudScore,
		"fraud_flags": params.FraudFlags,
		"updated_at":  params.At,
	}
	switch {
	case params.Blocked:
		set["status"] = models.StatusBlocked
		set["is_blocked"] = true
		set["blocked_reason"] = params.BlockedReason
		set["blocked_at"] = params.At
	case params.Verified:
		set["status"] = models.StatusVerified
		set["verified_at"] = params.At
	default:
		return false, dErrors.New(dErrors.CodeInvalidInput, "finalize without a terminal state")
	}

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID.String(), "status": models.StatusPending},
		bson.M{"$set": set},
	)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "finalize verification record")
	}
	return s.applied(ctx, userID, res)
}

func (s *Store) FlagForReview(ctx context.Context, userID domain.UserID, score int, flags []string, at time.Time) error {
	withOverlay := append([]string(nil), flags...)
	overlayPresent := false
	for _, f := range withOverlay {
		if f == models.FlagFlaggedForReview {
			overlayPresent = true
			break
		}
	}
	if !overlayPresent {
		withOverlay = append(withOverlay, models.FlagFlaggedForReview)
	}

	res, err := s.coll.UpdateByID(ctx, userID.String(), bson.M{"$set": bson.M{
		"fraud_score": score,
		"fraud_flags": withOverlay,
		"updated_at":  at,
	}})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "flag record for review")
	}
	if res.MatchedCount == 0 {
		return dErrors.New(dErrors.CodeNotFound, "verification record not found")
	}
	return nil
}

func (s *Store) SetFraudScore(ctx context.Context, userID domain.UserID, score int, flags []string) (bool, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{
			"_id":         userID.String(),
			"status":      models.StatusPending,
			"deleted":     false,
			"fraud_flags": bson.M{"$ne": models.FlagFlaggedForReview},
		},
		bson.M{"$set": bson.M{
			"fraud_score": score,
			"fraud_flags": flags,
		}},
	)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "set provisional fraud score")
	}
	return s.applied(ctx, userID, res)
}

func (s *Store) Override(ctx context.Context, userID domain.UserID, params ports.OverrideParams) (bool, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID.String(), "status": models.StatusBlocked},
		bson.M{
			"$set": bson.M{
				"status":      models.StatusVerified,
				"is_blocked":  false,
				"fraud_score": 0,
				"fraud_flags": []string{},
				"verified_at": params.At,
				"updated_at":  params.At,
			},
			"$unset": bson.M{
				"blocked_reason": "",
				"blocked_at":     "",
			},
		},
	)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "override verification record")
	}
	return s.applied(ctx, userID, res)
}

func (s *Store) MarkDeleted(ctx context.Context, userID domain.UserID, at time.Time) error {
	res, err := s.coll.UpdateByID(ctx, userID.String(), bson.M{"$set": bson.M{
		"deleted":    true,
		"updated_at": at,
	}})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "mark record deleted")
	}
	if res.MatchedCount == 0 {
		return dErrors.New(dErrors.CodeNotFound, "verification record not found")
	}
	return nil
}

func (s *Store) MarkRewardAwarded(ctx context.Context, userID domain.UserID, at time.Time) (bool, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID.String(), "reward_awarded": false},
		bson.M{"$set": bson.M{"reward_awarded": true, "updated_at": at}},
	)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "mark reward awarded")
	}
	return s.applied(ctx, userID, res)
}

func (s *Store) ListAwaitingMaturity(ctx context.Context, cutoff time.Time) ([]*models.VerificationRecord, error) {
	filter := bson.M{
		"status":      models.StatusPending,
		"deleted":     false,
		"signup_date": bson.M{"$lte": cutoff},
	}
	for _, key := range domain.EventItemKeys {
		filter[itemField(key, "completed")] = true
	}

	cur, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list records awaiting maturity")
	}
	var recs []*models.VerificationRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode records awaiting maturity")
	}
	return recs, nil
}

// applied maps an unmatched conditional update to either applied=false or
// not-found, depending on whether the record exists at all.
func (s *Store) applied(ctx context.Context, userID domain.UserID, res *mongo.UpdateResult) (bool, error) {
	if res.MatchedCount > 0 {
		return true, nil
	}
	n, err := s.coll.CountDocuments(ctx, bson.M{"_id": userID.String()})
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "check record existence")
	}
	if n == 0 {
		return false, dErrors.New(dErrors.CodeNotFound, "verification record not found")
	}
	return false, nil
}

func itemField(key domain.ItemKey, field string) string {
	return fmt.Sprintf("checklist.%s.%s", key, field)
}
