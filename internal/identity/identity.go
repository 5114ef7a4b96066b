// Package identity fronts the external identity provider. It issues opaque
// user identities; it never stores credentials itself.
package identity

import (
	"context"
	"errors"

	"wastewatch/pkg/types"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotConfirmed       = errors.New("account is not confirmed")
	ErrIdentityExists     = errors.New("an account with this email already exists")
	ErrInvalidSignUp      = errors.New("sign up rejected")
)

type Provider interface {
	SignUp(ctx context.Context, email, password string) (*types.Identity, error)
	SignIn(ctx context.Context, email, password string) (*types.Identity, error)
	SignInAnonymously(ctx context.Context) (*types.Identity, error)
}
