package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/user"
	"github.com/deppfellow/bizlist/internal/errs"
	"github.com/deppfellow/bizlist/internal/server"
)

// Identity is the auth provider's view of a user.
type Identity struct {
	ID        string
	Email     string
	FirstName *string
	LastName  *string
	ImageURL  *string
}

// IdentityProvider looks up users in the auth provider.
type IdentityProvider interface {
	GetIdentity(ctx context.Context, userID string) (*Identity, error)
}

// AuthService configures the Clerk SDK and reads user identities from it.
type AuthService struct {
	server *server.Server
}

func NewAuthService(s *server.Server) *AuthService {
	clerk.SetKey(s.Config.Auth.SecretKey)
	return &AuthService{
		server: s,
	}
}

func (a *AuthService) GetIdentity(ctx context.Context, userID string) (*Identity, error) {
	u, err := user.Get(ctx, userID)
	if err != nil {
		var apiErr *clerk.APIErrorResponse
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusNotFound {
			return nil, errs.NotFound("User not found")
		}
		return nil, fmt.Errorf("failed to fetch user %s from clerk: %w", userID, err)
	}

	return identityFromClerk(u), nil
}

func identityFromClerk(u *clerk.User) *Identity {
	identity := &Identity{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		ImageURL:  u.ImageURL,
	}

	for _, addr := range u.EmailAddresses {
		if addr == nil {
			continue
		}
		if identity.Email == "" {
			identity.Email = addr.EmailAddress
		}
		if u.PrimaryEmailAddressID != nil && addr.ID == *u.PrimaryEmailAddressID {
			identity.Email = addr.EmailAddress
			break
		}
	}

	return identity
}
