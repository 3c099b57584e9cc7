package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mdrakibmia99/hospital-management-system-server/internal/models"
)

func (s *Store) InsertDoctor(ctx context.Context, d models.Doctor) (models.InsertResult, error) {
	return insertProfile(ctx, s.doctors, d)
}

func (s *Store) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	return listProfiles(ctx, s.doctors)
}

func (s *Store) DeleteDoctor(ctx context.Context, email string) (models.DeleteResult, error) {
	res, err := s.doctors.DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("mongostore: delete doctor: %w", err)
	}
	return deleteResult(res), nil
}

func (s *Store) InsertOncologist(ctx context.Context, d models.Doctor) (models.InsertResult, error) {
	return insertProfile(ctx, s.oncologists, d)
}

func (s *Store) ListOncologists(ctx context.Context) ([]models.Doctor, error) {
	return listProfiles(ctx, s.oncologists)
}

func insertProfile(ctx context.Context, coll *mongo.Collection, d models.Doctor) (models.InsertResult, error) {
	res, err := coll.InsertOne(ctx, d)
	if err != nil {
		return models.InsertResult{}, fmt.Errorf("mongostore: insert into %s: %w", coll.Name(), err)
	}
	return insertResult(res), nil
}

func listProfiles(ctx context.Context, coll *mongo.Collection) ([]models.Doctor, error) {
	doctors := make([]models.Doctor, 0)
	if err := findAll(ctx, coll, bson.M{}, &doctors); err != nil {
		return nil, fmt.Errorf("mongostore: list %s: %w", coll.Name(), err)
	}
	return doctors, nil
}
