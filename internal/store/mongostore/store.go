// Package mongostore persists the portal's documents in MongoDB.
package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mdrakibmia99/hospital-management-system-server/internal/models"
)

// Collection names.
const (
	ServicesCollection    = "services"
	BookingsCollection    = "bookings"
	UsersCollection       = "user"
	DoctorsCollection     = "doctors"
	OncologistsCollection = "oncologists"
	PaymentsCollection    = "payments"
	ReviewsCollection     = "userReviews"
	ContactsCollection    = "contacts"
)

// Store holds one handle per collection. The zero value is not usable; build
// it with Connect or New.
type Store struct {
	client      *mongo.Client
	db          *mongo.Database
	services    *mongo.Collection
	bookings    *mongo.Collection
	users       *mongo.Collection
	doctors     *mongo.Collection
	oncologists *mongo.Collection
	payments    *mongo.Collection
	reviews     *mongo.Collection
	contacts    *mongo.Collection
}

// Connect establishes a connection to MongoDB and verifies it with a ping.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongostore: ping: %w", err)
	}
	s := New(client.Database(dbName))
	s.client = client
	return s, nil
}

// New wraps an existing database handle. Close is a no-op for stores built this way.
func New(db *mongo.Database) *Store {
	return &Store{
		db:          db,
		services:    db.Collection(ServicesCollection),
		bookings:    db.Collection(BookingsCollection),
		users:       db.Collection(UsersCollection),
		doctors:     db.Collection(DoctorsCollection),
		oncologists: db.Collection(OncologistsCollection),
		payments:    db.Collection(PaymentsCollection),
		reviews:     db.Collection(ReviewsCollection),
		contacts:    db.Collection(ContactsCollection),
	}
}

// Ping checks the connection to the database server.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, nil)
}

// Close disconnects the client opened by Connect.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique and lookup indexes the store relies on.
// The booking triple index is what makes InsertBookingIfAbsent safe under
// concurrent requests.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.bookings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "treatmentName", Value: 1},
				{Key: "patientName", Value: 1},
				{Key: "appointmentDate", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("booking_triple_unique"),
		},
		{Keys: bson.D{{Key: "appointmentDate", Value: 1}}, Options: options.Index().SetName("booking_date")},
		{Keys: bson.D{{Key: "patientEmail", Value: 1}}, Options: options.Index().SetName("booking_patient")},
	})
	if err != nil {
		return fmt.Errorf("mongostore: booking indexes: %w", err)
	}

	if _, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("user_email_unique"),
	}); err != nil {
		return fmt.Errorf("mongostore: user indexes: %w", err)
	}

	if _, err := s.reviews.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "reviewerEmail", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("review_email_unique"),
	}); err != nil {
		return fmt.Errorf("mongostore: review indexes: %w", err)
	}
	return nil
}

func idString(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

func insertResult(res *mongo.InsertOneResult) models.InsertResult {
	return models.InsertResult{Acknowledged: true, InsertedID: idString(res.InsertedID)}
}

func updateResult(res *mongo.UpdateResult) models.UpdateResult {
	return models.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    idString(res.UpsertedID),
	}
}

func deleteResult(res *mongo.DeleteResult) models.DeleteResult {
	return models.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}
}

// findAll runs a find and decodes every document into out.
func findAll(ctx context.Context, coll *mongo.Collection, filter any, out any, opts ...*options.FindOptions) error {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}
