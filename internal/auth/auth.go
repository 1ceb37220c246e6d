package auth

import "github.com/golang-jwt/jwt/v5"

// Authenticator validates bearer tokens issued by the identity
// provider; this service never issues end-user credentials itself.
// GenerateToken exists for tooling and tests.
type Authenticator interface {
	GenerateToken(userID int64, role string) (string, error)
	ValidateToken(token string) (*jwt.Token, error)
}
