// Package mongo reads community activity for fraud scoring from the shared
// community database.
package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"refguard/internal/fraud"
	platformmongo "refguard/internal/platform/mongo"
	"refguard/pkg/domain"
	dErrors "refguard/pkg/domain-errors"
	pstrings "refguard/pkg/platform/strings"
)

const (
	collPosts         = "forum_posts"
	collGroupMessages = "group_messages"
	collInteractions  = "interactions"
	collProfiles      = "community_profiles"
)

// Store implements fraud.ActivityReader over the community collections.
type Store struct {
	posts        *mongo.Collection
	messages     *mongo.Collection
	interactions *mongo.Collection
	profiles     *mongo.Collection
}

// NewStore creates an activity reader over the given client's database.
func NewStore(client *platformmongo.Client) *Store {
	return &Store{
		posts:        client.Collection(collPosts),
		messages:     client.Collection(collGroupMessages),
		interactions: client.Collection(collInteractions),
		profiles:     client.Collection(collProfiles),
	}
}

type postDoc struct {
	AuthorID  string    `bson:"author_id"`
	Title     string    `bson:"title"`
	Body      string    `bson:"body"`
	CreatedAt time.Time `bson:"created_at"`
}

type messageDoc struct {
	AuthorID  string    `bson:"author_id"`
	GroupID   string    `bson:"group_id"`
	CreatedAt time.Time `bson:"created_at"`
}

type interactionDoc struct {
	ActorID   string    `bson:"actor_id"`
	AuthorID  string    `bson:"author_id"`
	CreatedAt time.Time `bson:"created_at"`
}

type profileDoc struct {
	UserID    string   `bson:"_id"`
	Email     string   `bson:"email"`
	DeviceIDs []string `bson:"device_ids"`
}

func (s *Store) Posts(ctx context.Context, userID domain.UserID) ([]fraud.Post, error) {
	cur, err := s.posts.Find(ctx, bson.M{"author_id": userID.String()})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "fetch forum posts")
	}
	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode forum posts")
	}
	posts := make([]fraud.Post, 0, len(docs))
	for _, d := range docs {
		posts = append(posts, fraud.Post{CreatedAt: d.CreatedAt, Title: d.Title, Body: d.Body})
	}
	return posts, nil
}

func (s *Store) Messages(ctx context.Context, userID domain.UserID) ([]fraud.Message, error) {
	cur, err := s.messages.Find(ctx, bson.M{"author_id": userID.String()})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "fetch group messages")
	}
	var docs []messageDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode group messages")
	}
	messages := make([]fraud.Message, 0, len(docs))
	for _, d := range docs {
		messages = append(messages, fraud.Message{CreatedAt: d.CreatedAt, GroupID: domain.GroupID(d.GroupID)})
	}
	return messages, nil
}

func (s *Store) Interactions(ctx context.Context, userID domain.UserID) ([]fraud.Interaction, error) {
	cur, err := s.interactions.Find(ctx, bson.M{"actor_id": userID.String()})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "fetch interactions")
	}
	var docs []interactionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode interactions")
	}
	interactions := make([]fraud.Interaction, 0, len(docs))
	for _, d := range docs {
		interactions = append(interactions, fraud.Interaction{AuthorID: d.AuthorID, CreatedAt: d.CreatedAt})
	}
	return interactions, nil
}

func (s *Store) Devices(ctx context.Context, userID domain.UserID) ([]string, error) {
	doc, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	// Profiles accumulate duplicate fingerprints across sessions.
	return pstrings.DedupeAndTrimLower(doc.DeviceIDs), nil
}

func (s *Store) Email(ctx context.Context, userID domain.UserID) (string, error) {
	doc, err := s.profile(ctx, userID)
	if err != nil {
		return "", err
	}
	return doc.Email, nil
}

func (s *Store) profile(ctx context.Context, userID domain.UserID) (*profileDoc, error) {
	var doc profileDoc
	err := s.profiles.FindOne(ctx, bson.M{"_id": userID.String()}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, dErrors.New(dErrors.CodeNotFound, "community profile not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "fetch community profile")
	}
	return &doc, nil
}
