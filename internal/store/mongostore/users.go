package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mdrakibmia99/hospital-management-system-server/internal/models"
)

// UpsertUser writes the profile fields for email, creating the user if needed.
// The role is left untouched.
func (s *Store) UpsertUser(ctx context.Context, email string, profile models.User) (models.UpdateResult, error) {
	set := bson.M{"email": email}
	if profile.Name != "" {
		set["name"] = profile.Name
	}
	res, err := s.users.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": set}, options.Update().SetUpsert(true))
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("mongostore: upsert user: %w", err)
	}
	return updateResult(res), nil
}

// SetUserRole changes the role of an existing user.
func (s *Store) SetUserRole(ctx context.Context, email string, role models.Role) (models.UpdateResult, error) {
	res, err := s.users.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return models.UpdateResult{}, fmt.Errorf("mongostore: set user role: %w", err)
	}
	return updateResult(res), nil
}

// FindUserByEmail fetches one user. found is false when none matches.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, bool, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, fmt.Errorf("mongostore: find user: %w", err)
	}
	return user, true, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	if err := findAll(ctx, s.users, bson.M{}, &users); err != nil {
		return nil, fmt.Errorf("mongostore: list users: %w", err)
	}
	return users, nil
}

func (s *Store) DeleteUser(ctx context.Context, email string) (models.DeleteResult, error) {
	res, err := s.users.DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		return models.DeleteResult{}, fmt.Errorf("mongostore: delete user: %w", err)
	}
	return deleteResult(res), nil
}
