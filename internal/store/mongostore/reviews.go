package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mdrakibmia99/hospital-management-system-server/internal/models"
)

// UpsertReview stores the review for reviewerEmail. Every field of an earlier
// review is replaced, including ones the new review leaves empty.
func (s *Store) UpsertReview(ctx context.Context, reviewerEmail string, r models.Review) (models.UpdateResult, error) {
	set := bson.M{
		"reviewerEmail": reviewerEmail,
		"reviewerName":  r.ReviewerName,
		"rating":        r.Rating,
		"comment":       r.Comment,
		"location":      r.Location,
	}
	res, err := s.reviews.UpdateOne(ctx, bson.M{"reviewerEmail": reviewerEmail}, bson.M{"$set": set}, options.Update().SetUpsert(true))
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("mongostore: upsert review: %w", err)
	}
	return updateResult(res), nil
}

func (s *Store) ListReviews(ctx context.Context) ([]models.Review, error) {
	reviews := make([]models.Review, 0)
	if err := findAll(ctx, s.reviews, bson.M{}, &reviews); err != nil {
		return nil, fmt.Errorf("mongostore: list reviews: %w", err)
	}
	return reviews, nil
}

// InsertContact stores a contact message.
func (s *Store) InsertContact(ctx context.Context, c models.Contact) (models.InsertResult, error) {
	res, err := s.contacts.InsertOne(ctx, c)
	if err != nil {
		return models.InsertResult{}, fmt.Errorf("mongostore: insert contact: %w", err)
	}
	return insertResult(res), nil
}
