package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"tours-server/models"
)

// MongoProfileStore is the production ProfileStore: one document per
// user in the profiles collection, keyed by user id.
type MongoProfileStore struct {
	collection *mongo.Collection
}

func NewMongoProfileStore(collection *mongo.Collection) *MongoProfileStore {
	return &MongoProfileStore{collection: collection}
}

func (s *MongoProfileStore) GetProfile(ctx context.Context, userID string) (models.Profile, error) {
	var profile models.Profile
	err := s.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}

// RecordAcceptance sets both acceptance columns on the existing row.
// No upsert: a user without a profile row cannot accept terms.
func (s *MongoProfileStore) RecordAcceptance(ctx context.Context, userID string, acceptedAt time.Time, version string) error {
	update := bson.M{
		"$set": bson.M{
			"terms_accepted_at": acceptedAt,
			"terms_version":     version,
		},
	}
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("no profile row for user %s", userID)
	}
	return nil
}
