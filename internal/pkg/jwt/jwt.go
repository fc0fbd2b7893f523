package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess = "access"
	TokenTypeSSE    = "sse"

	sseTokenTTL = 5 * time.Minute
)

// Claims is what handlers need from a verified caller.
type Claims struct {
	Subject     string
	WorkplaceID *string
}

// Service verifies bearer tokens issued by the identity provider. Token
// issuance lives here only for short-lived stream tokens and tooling.
type Service interface {
	GenerateAccessToken(subject string, workplaceID *string, ttl time.Duration) (token string, expiresAt int64, err error)
	GenerateSSEToken(subject string, workplaceID *string) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (Claims, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(subject string, workplaceID *string, ttl time.Duration) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(ttl).Unix()

	claims := map[string]interface{}{
		"sub":  subject,
		"type": TokenTypeAccess,
		"exp":  expiresAt,
	}
	if workplaceID != nil {
		claims["workplace_id"] = *workplaceID
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// GenerateSSEToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateSSEToken(subject string, workplaceID *string) (token string, expiresIn int, err error) {
	expiresIn = int(sseTokenTTL.Seconds())

	claims := map[string]interface{}{
		"sub":  subject,
		"type": TokenTypeSSE,
		"exp":  time.Now().Add(sseTokenTTL).Unix(),
	}
	if workplaceID != nil {
		claims["workplace_id"] = *workplaceID
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	if err != nil {
		return "", 0, err
	}
	return tokenString, expiresIn, nil
}

// ValidateSSEToken validates an SSE token and returns its claims
func (j *JWTService) ValidateSSEToken(tokenString string) (Claims, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return Claims{}, err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeSSE {
		return Claims{}, jwt.ErrInvalidJWT()
	}
	if token.Subject() == "" {
		return Claims{}, jwt.ErrInvalidJWT()
	}

	return ClaimsFromMap(token.Subject(), token.PrivateClaims()), nil
}

// ClaimsFromMap extracts the optional workplace scope from private claims.
func ClaimsFromMap(subject string, private map[string]interface{}) Claims {
	claims := Claims{Subject: subject}
	if wp, ok := private["workplace_id"].(string); ok && wp != "" {
		claims.WorkplaceID = &wp
	}
	return claims
}
