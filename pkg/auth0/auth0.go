package auth0

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

const (
	AuthorizationHeader = "Authorization"
	Bearer              = "Bearer "

	AdminGroup = "admin"
)

type Config struct {
	Issuer   string `yaml:"issuer" envconfig:"AUTH0_DOMAIN"`
	Audience string `yaml:"audience" envconfig:"AUTH0_AUDIENCE"`
	Enable   bool   `yaml:"enable" envconfig:"AUTH0_ENABLE"`
}

// CustomClaims contains custom data we want from the token.
type CustomClaims struct {
	Scope    string   `json:"scope"`
	Groups   []string `json:"cognito:groups"`
	Username string   `json:"cognito:username"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
}

func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// HasScope checks whether our claims have a specific scope.
func (c CustomClaims) HasScope(expectedScope string) bool {
	for _, s := range strings.Fields(c.Scope) {
		if s == expectedScope {
			return true
		}
	}
	return false
}

func (c CustomClaims) InGroup(group string) bool {
	for _, g := range c.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// Claims is the verified (or, with verification disabled, decoded) content of a token.
type Claims struct {
	Subject string
	CustomClaims
}

type Verifier struct {
	validator *validator.Validator
}

// NewVerifier checks tokens against the issuer's JWKS. With Enable=false tokens are only
// decoded; the identity provider is then trusted to have issued them.
func NewVerifier(cfg Config) (*Verifier, error) {
	if !cfg.Enable {
		return &Verifier{}, nil
	}
	issuerURL, err := url.Parse("https://" + cfg.Issuer + "/")
	if err != nil {
		return nil, fmt.Errorf("failed to parse the issuer url: %v", err)
	}
	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)
	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{cfg.Audience},
		validator.WithCustomClaims(func() validator.CustomClaims { return &CustomClaims{} }),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the jwt validator: %v", err)
	}
	return &Verifier{validator: jwtValidator}, nil
}

func (v *Verifier) Claims(ctx context.Context, token string) (Claims, error) {
	token = strings.TrimPrefix(token, Bearer)
	if token == "" {
		return Claims{}, errors.New("empty token")
	}
	if v.validator == nil {
		return decode(token)
	}
	raw, err := v.validator.ValidateToken(ctx, token)
	if err != nil {
		return Claims{}, errors.Wrap(err, "validate token")
	}
	validated, ok := raw.(*validator.ValidatedClaims)
	if !ok {
		return Claims{}, errors.New("unexpected claims type")
	}
	claims := Claims{Subject: validated.RegisteredClaims.Subject}
	if custom, ok := validated.CustomClaims.(*CustomClaims); ok && custom != nil {
		claims.CustomClaims = *custom
	}
	return claims, nil
}

type unverifiedClaims struct {
	jwt.RegisteredClaims
	CustomClaims
}

func decode(token string) (Claims, error) {
	var c unverifiedClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return Claims{}, errors.Wrap(err, "decode token")
	}
	return Claims{Subject: c.Subject, CustomClaims: c.CustomClaims}, nil
}
