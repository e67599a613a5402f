package ports

import "github.com/orderstack/orderstack/internal/core/domain"

// TokenService issues and verifies identity assertions. Verification is a
// pure function of the signing secret and the token; there is no server-side
// revocation.
type TokenService interface {
	Issue(user *domain.User) (string, error)
	// Verify fails for a bad signature, a malformed token, or an expired
	// assertion. There is no grace period past the expiry.
	Verify(token string) (domain.Identity, error)
}
