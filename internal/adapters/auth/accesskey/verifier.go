package accesskey

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"finca-digital/internal/domain/farms"
	"finca-digital/internal/ports/auth"
)

var (
	ErrKeyEmpty = errors.New("access key is empty")
)

// FarmAuthenticator es lo que el verifier necesita de farms.Service.
type FarmAuthenticator interface {
	Authenticate(ctx context.Context, key string) (farms.Farm, error)
}

// Verifier implementa auth.AuthVerifier con la clave secreta por finca.
type Verifier struct {
	farms FarmAuthenticator
}

func NewVerifier(farms FarmAuthenticator) *Verifier {
	return &Verifier{farms: farms}
}

func (v *Verifier) Verify(ctx context.Context, key string) (auth.Claims, error) {
	if v == nil || v.farms == nil {
		return auth.Claims{}, errors.New("access key verifier not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return auth.Claims{}, ErrKeyEmpty
	}

	f, err := v.farms.Authenticate(ctx, key)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("access key rejected: %w", err)
	}
	return auth.Claims{FarmID: f.ID, FarmName: f.Name}, nil
}
