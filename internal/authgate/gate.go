// Package authgate verifies bearer credentials on every inbound request that
// is not matched by the exemption rule table. The signing secret is injected
// at construction and the revocation policy is pluggable.
package authgate

import (
	"net/http"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/openeshop/eshop/internal/errs"
	"github.com/openeshop/eshop/pkg/common"
)

// ClaimsContextKey is where the gate stores verified claims on the request.
const ClaimsContextKey = "authgate:claims"

const TokenTTL = 24 * time.Hour

// Claims is the token payload: the subject identity plus the admin flag.
type Claims struct {
	UserId  string `json:"userId"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// ExemptRule matches requests that bypass verification entirely. An empty
// method set matches every method.
type ExemptRule struct {
	Methods []string
	Path    *regexp.Regexp
}

func (r ExemptRule) Match(method, path string) bool {
	if !r.Path.MatchString(path) {
		return false
	}
	if len(r.Methods) == 0 {
		return true
	}
	for _, m := range r.Methods {
		if m == method {
			return true
		}
	}
	return false
}

// DefaultExemptRules builds the stock allow-list for an API root. Order
// creation is intentionally reachable without a credential.
func DefaultExemptRules(apiRoot string) []ExemptRule {
	root := regexp.QuoteMeta(apiRoot)
	readOnly := []string{http.MethodGet, http.MethodOptions}
	return []ExemptRule{
		{Methods: readOnly, Path: regexp.MustCompile(`^/public/uploads`)},
		{Methods: readOnly, Path: regexp.MustCompile("^" + root + "/products")},
		{Methods: readOnly, Path: regexp.MustCompile("^" + root + "/categories")},
		{Methods: []string{http.MethodGet, http.MethodOptions, http.MethodPost},
			Path: regexp.MustCompile("^" + root + "/orders")},
		{Path: regexp.MustCompile("^" + root + "/users/login$")},
		{Path: regexp.MustCompile("^" + root + "/users/register$")},
	}
}

// RevocationPolicy decides, after cryptographic verification, whether an
// otherwise valid credential is still rejected. Returns true when revoked.
type RevocationPolicy func(claims *Claims) bool

// AdminOnly treats every credential without a subject identity or without the
// admin flag as revoked. This mirrors the operative upstream behavior.
func AdminOnly(claims *Claims) bool {
	return claims.UserId == "" || !claims.IsAdmin
}

// SubjectOnly only requires a valid subject identity.
func SubjectOnly(claims *Claims) bool {
	return claims.UserId == ""
}

// PolicyByName resolves the configured policy name, defaulting to AdminOnly.
func PolicyByName(name string) RevocationPolicy {
	switch name {
	case "subject-only":
		return SubjectOnly
	default:
		return AdminOnly
	}
}

type GateConfig struct {
	Secret  string
	Exempt  []ExemptRule
	Revoked RevocationPolicy
}

type Gate struct {
	cfg GateConfig
}

func New(cfg GateConfig) *Gate {
	if cfg.Revoked == nil {
		cfg.Revoked = AdminOnly
	}
	return &Gate{cfg: cfg}
}

// Middleware returns the echo middleware enforcing the gate. Every failure
// mode (missing token, bad signature, revoked) maps to an UnauthorizedError
// before any route handler runs.
func (g *Gate) Middleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		Skipper:        g.exempt,
		ContextKey:     ClaimsContextKey,
		ParseTokenFunc: g.parseToken,
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.Unauthorized("The user is not authorized")
		},
	})
}

func (g *Gate) exempt(c echo.Context) bool {
	req := c.Request()
	for _, rule := range g.cfg.Exempt {
		if rule.Match(req.Method, req.URL.Path) {
			return true
		}
	}
	return false
}

func (g *Gate) parseToken(c echo.Context, auth string) (interface{}, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(auth, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errs.Unauthorized("unexpected signing method")
		}
		return []byte(g.cfg.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errs.Unauthorized("invalid token")
	}
	if g.cfg.Revoked(claims) {
		return nil, errs.Unauthorized("token revoked")
	}
	return claims, nil
}

// IssueToken signs a credential for the given user.
func (g *Gate) IssueToken(userID int64, isAdmin bool) (string, error) {
	now := time.Now()
	claims := Claims{
		UserId:  common.HexID(userID),
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(g.cfg.Secret))
}

// ClaimsFrom returns the verified identity attached to the request, if any.
func ClaimsFrom(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(ClaimsContextKey).(*Claims)
	return claims, ok
}
