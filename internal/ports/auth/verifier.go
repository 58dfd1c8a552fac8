package auth

import "context"

// AuthVerifier valida una clave de acceso y devuelve los claims de la finca.
type AuthVerifier interface {
	Verify(ctx context.Context, accessKey string) (Claims, error)
}
