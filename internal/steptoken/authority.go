// Package steptoken signs the short-lived tokens that carry a subject from
// one authentication factor to the next, and the final access credential.
package steptoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Step names the factor a step token vouches for.
type Step string

const (
	StepPasswordVerified Step = "password_verified"
	StepFaceVerified     Step = "face_verified"
)

// Token type discriminators.
const (
	TypeSession = "session"
	TypeAccess  = "access"
)

// StepTTL is the fixed lifetime of a step token.
const StepTTL = 10 * time.Minute

// ErrRejected is returned for every verification failure: bad signature,
// expiry, wrong type or wrong step are not distinguished.
var ErrRejected = errors.New("steptoken: invalid or expired session")

type stepClaims struct {
	jwt.RegisteredClaims
	Type string `json:"type"`
	Step Step   `json:"step"`
}

type accessClaims struct {
	jwt.RegisteredClaims
	Type  string `json:"type"`
	Email string `json:"email"`
}

// Token is a signed value and the instant it stops being accepted.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Access is the verified content of an access credential.
type Access struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

// Authority issues and verifies HS256 step tokens and access credentials.
type Authority struct {
	secret    []byte
	issuer    string
	accessTTL time.Duration
	now       func() time.Time
}

// NewAuthority returns an Authority signing with secret.
func NewAuthority(secret, issuer string, accessTTL time.Duration) (*Authority, error) {
	if secret == "" {
		return nil, errors.New("steptoken: signing secret is required")
	}
	if accessTTL <= 0 {
		return nil, errors.New("steptoken: access ttl must be positive")
	}
	return &Authority{secret: []byte(secret), issuer: issuer, accessTTL: accessTTL, now: time.Now}, nil
}

// WithClock returns a copy of a that reads time from now.
func (a *Authority) WithClock(now func() time.Time) *Authority {
	cp := *a
	cp.now = now
	return &cp
}

// AccessTTL is the configured access credential lifetime.
func (a *Authority) AccessTTL() time.Duration {
	return a.accessTTL
}

// IssueStep mints a session token vouching that subject completed step.
func (a *Authority) IssueStep(subject string, step Step) (Token, error) {
	now := a.now().UTC()
	exp := now.Add(StepTTL)
	claims := stepClaims{
		RegisteredClaims: a.registered(subject, now, exp),
		Type:             TypeSession,
		Step:             step,
	}
	value, err := a.sign(claims)
	if err != nil {
		return Token{}, err
	}
	return Token{Value: value, ExpiresAt: exp.Truncate(time.Second)}, nil
}

// VerifyStep returns the subject of token if it is an unexpired session token
// for exactly the required step.
func (a *Authority) VerifyStep(token string, required Step) (string, error) {
	var claims stepClaims
	if err := a.parse(token, &claims); err != nil {
		return "", ErrRejected
	}
	if claims.Type != TypeSession || claims.Step != required || claims.Subject == "" {
		return "", ErrRejected
	}
	return claims.Subject, nil
}

// IssueAccess mints the terminal access credential.
func (a *Authority) IssueAccess(subject, email string) (Token, error) {
	now := a.now().UTC()
	exp := now.Add(a.accessTTL)
	claims := accessClaims{
		RegisteredClaims: a.registered(subject, now, exp),
		Type:             TypeAccess,
		Email:            email,
	}
	value, err := a.sign(claims)
	if err != nil {
		return Token{}, err
	}
	return Token{Value: value, ExpiresAt: exp.Truncate(time.Second)}, nil
}

// VerifyAccess validates an access credential. Step tokens are rejected.
func (a *Authority) VerifyAccess(token string) (Access, error) {
	var claims accessClaims
	if err := a.parse(token, &claims); err != nil {
		return Access{}, ErrRejected
	}
	if claims.Type != TypeAccess || claims.Subject == "" {
		return Access{}, ErrRejected
	}
	return Access{Subject: claims.Subject, Email: claims.Email, ExpiresAt: claims.ExpiresAt.Time.UTC()}, nil
}

func (a *Authority) registered(subject string, now, exp time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		Issuer:    a.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
}

func (a *Authority) sign(claims jwt.Claims) (string, error) {
	value, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("steptoken: sign: %w", err)
	}
	return value, nil
}

func (a *Authority) parse(token string, claims jwt.Claims) error {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	return err
}
