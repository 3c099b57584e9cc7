package auth

import (
	"context"

	"github.com/mdrakibmia99/hospital-management-system-server/internal/apperr"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/models"
)

// UserFinder looks up a user by email. found is false when no record exists.
type UserFinder interface {
	FindUserByEmail(ctx context.Context, email string) (user models.User, found bool, err error)
}

// Guard performs role checks against stored user records.
type Guard struct {
	users UserFinder
}

func NewGuard(users UserFinder) *Guard {
	return &Guard{users: users}
}

// RequireRole succeeds only when the caller's stored role equals role.
// A caller without a user record is Forbidden.
func (g *Guard) RequireRole(ctx context.Context, role models.Role, callerEmail string) error {
	if callerEmail == "" {
		return apperr.Unauthenticated("unauthorized access")
	}
	user, found, err := g.users.FindUserByEmail(ctx, callerEmail)
	if err != nil {
		return apperr.Internal("failed to look up requester", err)
	}
	if !found {
		return apperr.Forbidden("forbidden access")
	}
	if user.Role != role {
		return apperr.Forbidden("forbidden access")
	}
	return nil
}

// HasRole reports whether email belongs to a user holding role. Unknown users have no role.
func (g *Guard) HasRole(ctx context.Context, role models.Role, email string) (bool, error) {
	user, found, err := g.users.FindUserByEmail(ctx, email)
	if err != nil {
		return false, apperr.Internal("failed to find user", err)
	}
	return found && user.Role == role, nil
}

// RequireSelf succeeds only when the resource belongs to the caller.
func RequireSelf(resourceEmail, callerEmail string) error {
	if resourceEmail == "" || resourceEmail != callerEmail {
		return apperr.Forbidden("forbidden access")
	}
	return nil
}
