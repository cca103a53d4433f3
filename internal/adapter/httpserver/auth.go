package httpserver

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/argon2"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
	obsctx "github.com/AdityaU3672/recruiterbook-api/internal/observability"
)

// AccessTokenCookie is the cookie consulted when no bearer token is sent.
const AccessTokenCookie = "access_token"

// Argon2Params defines parameters for Argon2id password hashing
type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLen     uint32
	KeyLen      uint32
}

var defaultArgon2Params = Argon2Params{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 2,
	SaltLen:     16,
	KeyLen:      32,
}

// HashPassword creates an Argon2id hash encoded as
// argon2id$iterations$memory$parallelism$salt$hash (raw std base64).
func HashPassword(password string, params Argon2Params) (string, error) {
	salt := make([]byte, params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, params.Iterations, params.Memory, params.Parallelism, params.KeyLen)
	return fmt.Sprintf("argon2id$%d$%d$%d$%s$%s",
		params.Iterations,
		params.Memory,
		params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword verifies a password against its Argon2id hash in constant time.
func VerifyPassword(password, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "argon2id" {
		return false
	}
	iters, err1 := parseUint32(parts[1])
	mem, err2 := parseUint32(parts[2])
	par, err3 := parseUint32(parts[3])
	if err1 != nil || err2 != nil || err3 != nil || par == 0 || par > math.MaxUint8 {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) == 0 {
		return false
	}
	actual := argon2.IDKey([]byte(password), salt, iters, mem, uint8(par), uint32(len(expected)))
	return subtle.ConstantTimeCompare(actual, expected) == 1
}

func parseUint32(s string) (uint32, error) {
	x, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(x), nil
}

// AdminCredentials guards admin endpoints with HTTP Basic auth.
type AdminCredentials struct {
	Username     string
	PasswordHash string
}

// NewAdminCredentials accepts a plain password or an existing argon2id hash.
// It returns nil when username or password is empty, which disables admin routes.
func NewAdminCredentials(username, password string) (*AdminCredentials, error) {
	if username == "" || password == "" {
		return nil, nil
	}
	hash := password
	if !strings.HasPrefix(password, "argon2id$") {
		var err error
		if hash, err = HashPassword(password, defaultArgon2Params); err != nil {
			return nil, fmt.Errorf("op=admin.credentials: %w", err)
		}
	}
	return &AdminCredentials{Username: username, PasswordHash: hash}, nil
}

// Require rejects requests without valid admin Basic credentials.
func (a *AdminCredentials) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a == nil {
			writeError(w, r, fmt.Errorf("%w: admin access is disabled", domain.ErrForbidden), nil)
			return
		}
		user, pass, ok := r.BasicAuth()
		userOK := subtle.ConstantTimeCompare([]byte(user), []byte(a.Username)) == 1
		if !ok || !userOK || !VerifyPassword(pass, a.PasswordHash) {
			w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
			writeError(w, r, fmt.Errorf("%w: admin credentials required", domain.ErrUnauthorized), nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Claims are the access token claims: sub is the user id.
type Claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer returns an issuer whose tokens live for ttl.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for u and its expiry.
func (t *TokenIssuer) Issue(u domain.User) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Name: u.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("op=token.issue: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies raw and returns the identity it carries.
func (t *TokenIssuer) Parse(raw string) (domain.Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("op=token.parse: %w: %w", domain.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return domain.Identity{}, fmt.Errorf("op=token.parse: %w: missing subject", domain.ErrUnauthorized)
	}
	return domain.Identity{UserID: claims.Subject, FullName: claims.Name}, nil
}

// SignInAudience is the audience every identity assertion must name.
const SignInAudience = "recruiterbook-signin"

// maxAssertionLifetime bounds exp-iat so a leaked assertion is short lived.
const maxAssertionLifetime = 5 * time.Minute

// ExternalIdentity is what the login gateway vouches for after the provider login.
type ExternalIdentity struct {
	ExternalID string
	FullName   string
}

// AssertionVerifier checks identity assertions: HS256 tokens signed by the
// login gateway with a secret shared only with this service.
type AssertionVerifier struct {
	secret []byte
	now    func() time.Time
}

// NewAssertionVerifier returns nil when secret is empty, which disables sign-in.
func NewAssertionVerifier(secret string) *AssertionVerifier {
	if secret == "" {
		return nil
	}
	return &AssertionVerifier{secret: []byte(secret), now: time.Now}
}

// SignAssertion produces the assertion the login gateway hands to POST /v1/users.
func SignAssertion(secret string, id ExternalIdentity, issuedAt time.Time, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Name: id.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ExternalID,
			Audience:  jwt.ClaimStrings{SignInAudience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("op=assertion.sign: %w", err)
	}
	return signed, nil
}

// Verify returns the external identity carried by raw.
func (v *AssertionVerifier) Verify(raw string) (ExternalIdentity, error) {
	if v == nil {
		return ExternalIdentity{}, fmt.Errorf("op=assertion.verify: %w: sign-in is disabled", domain.ErrForbidden)
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(SignInAudience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return ExternalIdentity{}, fmt.Errorf("op=assertion.verify: %w: %w", domain.ErrUnauthorized, err)
	}
	if claims.IssuedAt == nil || claims.ExpiresAt.Sub(claims.IssuedAt.Time) > maxAssertionLifetime {
		return ExternalIdentity{}, fmt.Errorf("op=assertion.verify: %w: assertion lifetime too long", domain.ErrUnauthorized)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return ExternalIdentity{}, fmt.Errorf("op=assertion.verify: %w: missing subject", domain.ErrUnauthorized)
	}
	return ExternalIdentity{ExternalID: claims.Subject, FullName: claims.Name}, nil
}

type identityKey struct{}

// IdentityFrom returns the authenticated caller, or the zero Identity.
func IdentityFrom(ctx context.Context) domain.Identity {
	id, _ := ctx.Value(identityKey{}).(domain.Identity)
	return id
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(AccessTokenCookie); err == nil {
		return c.Value
	}
	return ""
}

// Authenticate attaches the caller's identity when a valid token is present.
// Requests without a token pass through anonymously; an invalid token is rejected.
func (t *TokenIssuer) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		id, err := t.Parse(raw)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		ctx := context.WithValue(r.Context(), identityKey{}, id)
		ctx = obsctx.ContextWithAttrs(ctx, "user_id", id.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser rejects anonymous requests.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IdentityFrom(r.Context()).IsZero() {
			writeError(w, r, fmt.Errorf("%w: sign in required", domain.ErrUnauthorized), nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
