// Package directory manages users and their roles, doctor profiles and reviews.
package directory

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mdrakibmia99/hospital-management-system-server/internal/apperr"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/auth"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/models"
)

type UserStore interface {
	auth.UserFinder
	UpsertUser(ctx context.Context, email string, profile models.User) (models.UpdateResult, error)
	SetUserRole(ctx context.Context, email string, role models.Role) (models.UpdateResult, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, email string) (models.DeleteResult, error)
}

type DoctorStore interface {
	InsertDoctor(ctx context.Context, d models.Doctor) (models.InsertResult, error)
	ListDoctors(ctx context.Context) ([]models.Doctor, error)
	DeleteDoctor(ctx context.Context, email string) (models.DeleteResult, error)
	InsertOncologist(ctx context.Context, d models.Doctor) (models.InsertResult, error)
	ListOncologists(ctx context.Context) ([]models.Doctor, error)
}

type FeedbackStore interface {
	UpsertReview(ctx context.Context, reviewerEmail string, r models.Review) (models.UpdateResult, error)
	ListReviews(ctx context.Context) ([]models.Review, error)
	InsertContact(ctx context.Context, c models.Contact) (models.InsertResult, error)
}

// TokenIssuer signs session tokens for an email.
type TokenIssuer interface {
	Issue(email string) (string, error)
}

type Config struct {
	Users    UserStore
	Doctors  DoctorStore
	Feedback FeedbackStore
	Tokens   TokenIssuer
	Logger   zerolog.Logger
}

type Service struct {
	users   UserStore
	doctors DoctorStore
	reviews FeedbackStore
	tokens  TokenIssuer
	guard   *auth.Guard
	logger  zerolog.Logger
}

func NewService(cfg Config) *Service {
	return &Service{
		users:   cfg.Users,
		doctors: cfg.Doctors,
		reviews: cfg.Feedback,
		tokens:  cfg.Tokens,
		guard:   auth.NewGuard(cfg.Users),
		logger:  cfg.Logger,
	}
}

// Guard exposes the role checker bound to this directory's user store.
func (s *Service) Guard() *auth.Guard {
	return s.guard
}

// UpsertUser creates or updates the profile of email and returns a fresh
// token for it. The role cannot be set through this call.
func (s *Service) UpsertUser(ctx context.Context, email string, profile models.User) (models.UpdateResult, string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return models.UpdateResult{}, "", apperr.Validation("email is required")
	}
	profile.Role = models.RoleNone

	res, err := s.users.UpsertUser(ctx, email, profile)
	if err != nil {
		return models.UpdateResult{}, "", apperr.Internal("failed to upsert user", err)
	}
	token, err := s.tokens.Issue(email)
	if err != nil {
		return models.UpdateResult{}, "", err
	}
	return res, token, nil
}

// PromoteToAdmin grants the admin role to email. The caller must be an admin.
func (s *Service) PromoteToAdmin(ctx context.Context, email, callerEmail string) (models.UpdateResult, string, error) {
	if err := s.guard.RequireRole(ctx, models.RoleAdmin, callerEmail); err != nil {
		return models.UpdateResult{}, "", err
	}
	res, err := s.users.SetUserRole(ctx, email, models.RoleAdmin)
	if err != nil {
		return models.UpdateResult{}, "", apperr.Internal("failed to update user role", err)
	}
	token, err := s.tokens.Issue(email)
	if err != nil {
		return models.UpdateResult{}, "", err
	}
	s.logger.Info().Str("email", email).Str("by", callerEmail).Int64("matched", res.MatchedCount).Msg("user promoted to admin")
	return res, token, nil
}

func (s *Service) IsAdmin(ctx context.Context, email string) (bool, error) {
	return s.guard.HasRole(ctx, models.RoleAdmin, email)
}

func (s *Service) IsDoctor(ctx context.Context, email string) (bool, error) {
	return s.guard.HasRole(ctx, models.RoleDoctor, email)
}

func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to fetch users", err)
	}
	return users, nil
}

func (s *Service) DeleteUser(ctx context.Context, email string) (models.DeleteResult, error) {
	res, err := s.users.DeleteUser(ctx, email)
	if err != nil {
		return models.DeleteResult{}, apperr.Internal("failed to delete user", err)
	}
	return res, nil
}

func (s *Service) AddDoctor(ctx context.Context, d models.Doctor) (models.InsertResult, error) {
	if d.Name == "" || d.Email == "" {
		return models.InsertResult{}, apperr.Validation("name and email are required")
	}
	res, err := s.doctors.InsertDoctor(ctx, d)
	if err != nil {
		return models.InsertResult{}, apperr.Internal("failed to insert doctor", err)
	}
	return res, nil
}

func (s *Service) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	doctors, err := s.doctors.ListDoctors(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to fetch doctors", err)
	}
	return doctors, nil
}

func (s *Service) DeleteDoctor(ctx context.Context, email string) (models.DeleteResult, error) {
	res, err := s.doctors.DeleteDoctor(ctx, email)
	if err != nil {
		return models.DeleteResult{}, apperr.Internal("failed to delete doctor", err)
	}
	return res, nil
}

func (s *Service) AddOncologist(ctx context.Context, d models.Doctor) (models.InsertResult, error) {
	if d.Name == "" || d.Email == "" {
		return models.InsertResult{}, apperr.Validation("name and email are required")
	}
	res, err := s.doctors.InsertOncologist(ctx, d)
	if err != nil {
		return models.InsertResult{}, apperr.Internal("failed to insert oncologist", err)
	}
	return res, nil
}

func (s *Service) ListOncologists(ctx context.Context) ([]models.Doctor, error) {
	doctors, err := s.doctors.ListOncologists(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to fetch oncologists", err)
	}
	return doctors, nil
}

// SubmitReview stores the review of reviewerEmail, replacing an earlier one.
func (s *Service) SubmitReview(ctx context.Context, reviewerEmail string, r models.Review) (models.UpdateResult, error) {
	if reviewerEmail == "" {
		return models.UpdateResult{}, apperr.Validation("reviewer email is required")
	}
	if r.Rating < 0 || r.Rating > 5 {
		return models.UpdateResult{}, apperr.Validation("rating must be between 0 and 5")
	}
	res, err := s.reviews.UpsertReview(ctx, reviewerEmail, r)
	if err != nil {
		return models.UpdateResult{}, apperr.Internal("failed to save review", err)
	}
	return res, nil
}

func (s *Service) ListReviews(ctx context.Context) ([]models.Review, error) {
	reviews, err := s.reviews.ListReviews(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to fetch reviews", err)
	}
	return reviews, nil
}

func (s *Service) SubmitContact(ctx context.Context, c models.Contact) (models.InsertResult, error) {
	res, err := s.reviews.InsertContact(ctx, c)
	if err != nil {
		return models.InsertResult{}, apperr.Internal("failed to insert contact", err)
	}
	return res, nil
}
