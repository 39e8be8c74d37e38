// Package auth issues and checks the credentials that gate every purchase RPC.
package auth

import (
	"context"

	"github.com/mmynk/warikan/internal/models"
)

// Authenticator registers and verifies users. Password login is the only
// implementation; the interface keeps the service layer independent of it.
type Authenticator interface {
	// Register creates a new user account with the given email and credential.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
