// Package token decodes and signs session bearer tokens as JWTs.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/schoolhub/school-console/internal/core/domain"
	"github.com/schoolhub/school-console/internal/core/ports"
)

// DefaultRoleClaim is the claim holding the role tag.
const DefaultRoleClaim = "role"

// Options configures a Codec.
type Options struct {
	// Secret is the HS256 key. Without it tokens are decoded without
	// signature verification and Encode fails.
	Secret string
	// RoleClaim names the claim carrying the role. Defaults to DefaultRoleClaim.
	RoleClaim string
	// RoleAliases maps incoming role tags (matched case-insensitively) onto
	// the closed role set, e.g. ALUNO -> STUDENT.
	RoleAliases map[string]domain.Role
	// Leeway tolerates clock skew when checking expiry.
	Leeway time.Duration
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Codec implements ports.TokenCodec and ports.TokenSigner with golang-jwt.
type Codec struct {
	secret    []byte
	roleClaim string
	aliases   map[string]domain.Role
	leeway    time.Duration
	now       func() time.Time
}

func NewCodec(opts Options) *Codec {
	c := &Codec{
		secret:    []byte(opts.Secret),
		roleClaim: opts.RoleClaim,
		aliases:   make(map[string]domain.Role, len(opts.RoleAliases)),
		leeway:    opts.Leeway,
		now:       opts.Now,
	}
	for tag, role := range opts.RoleAliases {
		c.aliases[normalizeTag(tag)] = role
	}
	if c.roleClaim == "" {
		c.roleClaim = DefaultRoleClaim
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Decode parses raw and extracts the session claims. Every failure wraps
// domain.ErrMalformedToken. An unknown role tag is not a failure: the raw tag
// is returned and left for the caller to judge.
func (c *Codec) Decode(raw string) (domain.Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Claims{}, fmt.Errorf("%w: empty token", domain.ErrMalformedToken)
	}

	claims := jwt.MapClaims{}
	if err := c.parse(raw, claims); err != nil {
		return domain.Claims{}, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return domain.Claims{}, fmt.Errorf("%w: missing subject", domain.ErrMalformedToken)
	}
	roleTag, _ := claims[c.roleClaim].(string)
	if strings.TrimSpace(roleTag) == "" {
		return domain.Claims{}, fmt.Errorf("%w: missing %s claim", domain.ErrMalformedToken, c.roleClaim)
	}
	if aliased, ok := c.aliases[normalizeTag(roleTag)]; ok {
		roleTag = string(aliased)
	}
	role, _ := domain.ParseRole(roleTag)

	out := domain.Claims{Subject: sub, Role: role}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return domain.Claims{}, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}
	if exp != nil {
		out.ExpiresAt = exp.Time
		if c.now().After(exp.Time.Add(c.leeway)) {
			return domain.Claims{}, fmt.Errorf("%w: %v", domain.ErrMalformedToken, jwt.ErrTokenExpired)
		}
	}
	out.Name, _ = claims["name"].(string)
	out.Email, _ = claims["email"].(string)
	return out, nil
}

func normalizeTag(tag string) string {
	return strings.ToUpper(strings.TrimSpace(tag))
}

// parse verifies the HS256 signature when a secret is configured. Expiry is
// checked by Decode so both modes share the same clock.
func (c *Codec) parse(raw string, claims jwt.MapClaims) error {
	if len(c.secret) == 0 {
		_, _, err := jwt.NewParser().ParseUnverified(raw, claims)
		return err
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	tkn, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		return err
	}
	if !tkn.Valid {
		return errors.New("invalid token")
	}
	return nil
}

// Encode signs claims with HS256.
func (c *Codec) Encode(in domain.Claims) (string, error) {
	if len(c.secret) == 0 {
		return "", errors.New("token: signing requires a secret")
	}

	claims := jwt.MapClaims{
		"sub":       in.Subject,
		c.roleClaim: string(in.Role),
	}
	if !in.IssuedAt.IsZero() {
		claims["iat"] = in.IssuedAt.Unix()
	}
	if !in.ExpiresAt.IsZero() {
		claims["exp"] = in.ExpiresAt.Unix()
	}
	if in.Name != "" {
		claims["name"] = in.Name
	}
	if in.Email != "" {
		claims["email"] = in.Email
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

var (
	_ ports.TokenCodec  = (*Codec)(nil)
	_ ports.TokenSigner = (*Codec)(nil)
)
