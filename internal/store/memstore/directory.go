package memstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mdrakibmia99/hospital-management-system-server/internal/models"
)

func (s *Store) UpsertUser(_ context.Context, email string, profile models.User) (models.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].Email != email {
			continue
		}
		res := models.UpdateResult{Acknowledged: true, MatchedCount: 1}
		if profile.Name != "" && profile.Name != s.users[i].Name {
			s.users[i].Name = profile.Name
			res.ModifiedCount = 1
		}
		return res, nil
	}
	u := models.User{ID: primitive.NewObjectID(), Email: email, Name: profile.Name}
	s.users = append(s.users, u)
	return models.UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: u.ID.Hex()}, nil
}

func (s *Store) SetUserRole(_ context.Context, email string, role models.Role) (models.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := models.UpdateResult{Acknowledged: true}
	for i := range s.users {
		if s.users[i].Email != email {
			continue
		}
		res.MatchedCount = 1
		if s.users[i].Role != role {
			s.users[i].Role = role
			res.ModifiedCount = 1
		}
		break
	}
	return res, nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (models.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, true, nil
		}
	}
	return models.User{}, false, nil
}

func (s *Store) ListUsers(context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(make([]models.User, 0, len(s.users)), s.users...), nil
}

func (s *Store) DeleteUser(_ context.Context, email string) (models.DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.users {
		if u.Email == email {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return models.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
		}
	}
	return models.DeleteResult{Acknowledged: true}, nil
}

func (s *Store) InsertDoctor(_ context.Context, d models.Doctor) (models.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insertProfile(&s.doctors, d), nil
}

func (s *Store) ListDoctors(context.Context) ([]models.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(make([]models.Doctor, 0, len(s.doctors)), s.doctors...), nil
}

// DeleteDoctor removes the first doctor registered under email.
func (s *Store) DeleteDoctor(_ context.Context, email string) (models.DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.doctors {
		if d.Email == email {
			s.doctors = append(s.doctors[:i], s.doctors[i+1:]...)
			return models.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
		}
	}
	return models.DeleteResult{Acknowledged: true}, nil
}

func (s *Store) InsertOncologist(_ context.Context, d models.Doctor) (models.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insertProfile(&s.oncologists, d), nil
}

func (s *Store) ListOncologists(context.Context) ([]models.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(make([]models.Doctor, 0, len(s.oncologists)), s.oncologists...), nil
}

func insertProfile(list *[]models.Doctor, d models.Doctor) models.InsertResult {
	if d.ID.IsZero() {
		d.ID = primitive.NewObjectID()
	}
	*list = append(*list, d)
	return models.InsertResult{Acknowledged: true, InsertedID: d.ID.Hex()}
}

func (s *Store) UpsertReview(_ context.Context, reviewerEmail string, r models.Review) (models.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reviews {
		if s.reviews[i].ReviewerEmail != reviewerEmail {
			continue
		}
		r.ID = s.reviews[i].ID
		r.ReviewerEmail = reviewerEmail
		res := models.UpdateResult{Acknowledged: true, MatchedCount: 1}
		if r != s.reviews[i] {
			s.reviews[i] = r
			res.ModifiedCount = 1
		}
		return res, nil
	}
	r.ID = primitive.NewObjectID()
	r.ReviewerEmail = reviewerEmail
	s.reviews = append(s.reviews, r)
	return models.UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: r.ID.Hex()}, nil
}

func (s *Store) ListReviews(context.Context) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(make([]models.Review, 0, len(s.reviews)), s.reviews...), nil
}

func (s *Store) InsertContact(_ context.Context, c models.Contact) (models.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	s.contacts = append(s.contacts, c)
	return models.InsertResult{Acknowledged: true, InsertedID: c.ID.Hex()}, nil
}
