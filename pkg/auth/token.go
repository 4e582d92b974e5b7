package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tendant/simple-orgs/pkg/domain"
)

const (
	// DefaultAccessTokenTTL is used when TokenConfig.AccessTokenTTL is unset.
	DefaultAccessTokenTTL = 60 * time.Minute

	// TokenType is reported to clients alongside issued tokens.
	TokenType = "bearer"
)

// TokenConfig holds token signing configuration.
type TokenConfig struct {
	Secret         []byte
	Issuer         string
	AccessTokenTTL time.Duration
}

// TokenService issues and verifies admin access tokens.
// Tokens are stateless: there is no revocation, a token stays valid until it expires.
type TokenService struct {
	config TokenConfig
	now    func() time.Time
}

// NewTokenService creates a new token service.
func NewTokenService(config TokenConfig) *TokenService {
	if config.AccessTokenTTL == 0 {
		config.AccessTokenTTL = DefaultAccessTokenTTL
	}
	return &TokenService{
		config: config,
		now:    time.Now,
	}
}

// AccessTokenTTL returns the configured access token lifetime.
func (s *TokenService) AccessTokenTTL() time.Duration {
	return s.config.AccessTokenTTL
}

// AccessTokenClaims represents the claims in an access token.
// The subject is the admin ID.
type AccessTokenClaims struct {
	jwt.RegisteredClaims
	OrgID   string `json:"org_id"`
	OrgName string `json:"org_name"`
}

// Identity is the verified content of an access token.
type Identity struct {
	AdminID   uuid.UUID
	OrgID     uuid.UUID
	OrgName   string
	ExpiresAt time.Time
}

// Issue signs a token for the admin of an organization, valid for ttl.
func (s *TokenService) Issue(adminID, orgID uuid.UUID, orgName string, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(ttl)

	claims := AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    s.config.Issuer,
		},
		OrgID:   orgID.String(),
		OrgName: orgName,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.config.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// IssueAccessToken signs a token with the configured access token TTL.
func (s *TokenService) IssueAccessToken(adminID, orgID uuid.UUID, orgName string) (string, time.Time, error) {
	return s.Issue(adminID, orgID, orgName, s.config.AccessTokenTTL)
}

// Verify checks the signature and expiry of a token and returns its identity.
// Any failure is reported as domain.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &AccessTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return s.config.Secret, nil
	}, opts...)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*AccessTokenClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	adminID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	orgID, err := uuid.Parse(claims.OrgID)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	identity := &Identity{
		AdminID: adminID,
		OrgID:   orgID,
		OrgName: claims.OrgName,
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}
