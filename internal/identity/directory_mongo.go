package identity

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	platformmongo "refguard/internal/platform/mongo"
	"refguard/pkg/domain"
	dErrors "refguard/pkg/domain-errors"
)

// MongoDirectory looks up profile bindings in the community profile
// collection.
type MongoDirectory struct {
	coll *mongo.Collection
}

// NewMongoDirectory creates a directory over the given client's database.
func NewMongoDirectory(client *platformmongo.Client) *MongoDirectory {
	return &MongoDirectory{coll: client.Collection("community_profiles")}
}

func (d *MongoDirectory) Lookup(ctx context.Context, profileID domain.ProfileID) (domain.UserID, error) {
	var doc struct {
		UserID string `bson:"_id"`
	}
	err := d.coll.FindOne(ctx,
		bson.M{"profile_id": profileID.String()},
	).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", dErrors.New(dErrors.CodeNotFound, "unknown community profile")
	}
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "profile lookup failed")
	}
	return domain.UserID(doc.UserID), nil
}
