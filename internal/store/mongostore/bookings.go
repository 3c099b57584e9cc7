package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mdrakibmia99/hospital-management-system-server/internal/models"
)

func bookingKey(b models.Booking) bson.M {
	return bson.M{
		"treatmentName":   b.TreatmentName,
		"patientName":     b.PatientName,
		"appointmentDate": b.AppointmentDate,
	}
}

// InsertBookingIfAbsent inserts b unless a booking with the same treatment,
// patient and date exists. It returns the stored record and whether it was
// created. The check and the insert are one upsert; a concurrent upsert that
// loses on the unique index reads back the winner.
func (s *Store) InsertBookingIfAbsent(ctx context.Context, b models.Booking) (models.Booking, bool, error) {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	filter := bookingKey(b)
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.Before)

	var existing models.Booking
	err := s.bookings.FindOneAndUpdate(ctx, filter, bson.M{"$setOnInsert": b}, opts).Decode(&existing)
	switch {
	case err == nil:
		return existing, false, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return b, true, nil
	case mongo.IsDuplicateKeyError(err):
		err = s.bookings.FindOne(ctx, filter).Decode(&existing)
		if err != nil {
			return models.Booking{}, false, fmt.Errorf("mongostore: read conflicting booking: %w", err)
		}
		return existing, false, nil
	default:
		return models.Booking{}, false, fmt.Errorf("mongostore: upsert booking: %w", err)
	}
}

// ListBookingsByDate returns the bookings whose appointmentDate equals date.
func (s *Store) ListBookingsByDate(ctx context.Context, date string) ([]models.Booking, error) {
	bookings := make([]models.Booking, 0)
	if err := findAll(ctx, s.bookings, bson.M{"appointmentDate": date}, &bookings); err != nil {
		return nil, fmt.Errorf("mongostore: list bookings by date: %w", err)
	}
	return bookings, nil
}

// ListBookingsByPatient returns the bookings made under email.
func (s *Store) ListBookingsByPatient(ctx context.Context, email string) ([]models.Booking, error) {
	bookings := make([]models.Booking, 0)
	if err := findAll(ctx, s.bookings, bson.M{"patientEmail": email}, &bookings); err != nil {
		return nil, fmt.Errorf("mongostore: list bookings by patient: %w", err)
	}
	return bookings, nil
}

// FindBookingByID fetches one booking. found is false when none matches.
func (s *Store) FindBookingByID(ctx context.Context, id primitive.ObjectID) (models.Booking, bool, error) {
	var booking models.Booking
	err := s.bookings.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Booking{}, false, nil
	}
	if err != nil {
		return models.Booking{}, false, fmt.Errorf("mongostore: find booking: %w", err)
	}
	return booking, true, nil
}

// MarkBookingPaid sets paid and the transaction id on a booking.
func (s *Store) MarkBookingPaid(ctx context.Context, id primitive.ObjectID, transactionID string) (models.UpdateResult, error) {
	update := bson.M{"$set": bson.M{"paid": true, "transactionId": transactionID}}
	res, err := s.bookings.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("mongostore: mark booking paid: %w", err)
	}
	return updateResult(res), nil
}
