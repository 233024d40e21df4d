package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/modkit/di"
	"github.com/kbukum/modkit/lifecycle"
	"github.com/kbukum/modkit/module"
)

// ContextKeySubject is the Gin context key holding the authenticated subject.
const ContextKeySubject = "auth_subject"

// Options configures bearer-token authentication.
type Options struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Secret   string        `yaml:"secret" mapstructure:"secret"`
	Issuer   string        `yaml:"issuer" mapstructure:"issuer"`
	Audience string        `yaml:"audience" mapstructure:"audience"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// Claims are the JWT claims accepted by the Verifier.
type Claims struct {
	gojwt.RegisteredClaims
	Scope string `json:"scope,omitempty"`
}

// Verifier issues and verifies HS256 tokens.
type Verifier struct {
	opts Options
}

var _ lifecycle.Describable = (*Verifier)(nil)

// NewVerifier creates a Verifier. A secret is required when enabled.
func NewVerifier(opts Options) (*Verifier, error) {
	if opts.Enabled && opts.Secret == "" {
		return nil, errors.New("auth: secret is required when enabled")
	}
	if opts.TTL == 0 {
		opts.TTL = time.Hour
	}
	return &Verifier{opts: opts}, nil
}

// Enabled reports whether Guard enforces tokens.
func (v *Verifier) Enabled() bool { return v.opts.Enabled }

// Issue signs a token for subject.
func (v *Verifier) Issue(subject, scope string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    v.opts.Issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(v.opts.TTL)),
		},
		Scope: scope,
	}
	if v.opts.Audience != "" {
		claims.Audience = gojwt.ClaimStrings{v.opts.Audience}
	}
	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(v.opts.Secret))
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates token.
func (v *Verifier) Verify(token string) (*Claims, error) {
	opts := []gojwt.ParserOption{gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()})}
	if v.opts.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(v.opts.Issuer))
	}
	if v.opts.Audience != "" {
		opts = append(opts, gojwt.WithAudience(v.opts.Audience))
	}

	claims := &Claims{}
	parsed, err := gojwt.ParseWithClaims(token, claims, func(*gojwt.Token) (any, error) {
		return []byte(v.opts.Secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("auth: parse token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("auth: invalid token")
	}
	return claims, nil
}

// Guard rejects requests without a valid bearer token. It passes every
// request through when authentication is disabled.
func (v *Verifier) Guard() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !v.opts.Enabled {
			c.Next()
			return
		}

		scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		if !ok || scheme != "Bearer" || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHORIZED", "message": "bearer token required"})
			return
		}
		claims, err := v.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHORIZED", "message": "invalid token"})
			return
		}
		c.Set(ContextKeySubject, claims.Subject)
		c.Next()
	}
}

// Describe reports the guard for the startup summary.
func (v *Verifier) Describe() lifecycle.Description {
	state := "disabled"
	if v.opts.Enabled {
		state = "HS256 bearer"
	}
	return lifecycle.Description{Name: "Auth", Type: "guard", Details: state}
}

// OptionsToken is the token the auth options are provided under.
var OptionsToken = di.Named("AUTH_OPTIONS")

// VerifierClass builds the Verifier from the provided Options.
var VerifierClass = di.NewClass(func(ctx context.Context, args []any) (*Verifier, error) {
	opts, err := di.RequireArg[Options](args, 0)
	if err != nil {
		return nil, err
	}
	return NewVerifier(opts)
}, di.Inject(OptionsToken))

// Module is the static auth module definition.
var Module = module.Define("AuthModule", module.Metadata{
	Providers: []di.Registrable{VerifierClass},
	Exports:   []di.Token{VerifierClass.Token()},
})

// ForRoot provides a Verifier configured with opts.
func ForRoot(opts Options) *module.Dynamic {
	return &module.Dynamic{
		Module: Module,
		Providers: []di.Registrable{
			di.Provider{Provide: OptionsToken, UseValue: opts},
			VerifierClass,
		},
		Exports: []di.Token{VerifierClass.Token()},
		Global:  true,
	}
}
