package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mdrakibmia99/hospital-management-system-server/internal/models"
)

// InsertPayment appends a payment record.
func (s *Store) InsertPayment(ctx context.Context, p models.Payment) (models.InsertResult, error) {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	res, err := s.payments.InsertOne(ctx, p)
	if err != nil {
		return models.InsertResult{}, fmt.Errorf("mongostore: insert payment: %w", err)
	}
	return insertResult(res), nil
}

// DeletePayment removes a payment record; used to undo a payment whose booking update failed.
func (s *Store) DeletePayment(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.payments.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("mongostore: delete payment: %w", err)
	}
	return nil
}
