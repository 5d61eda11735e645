package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrEmptySecret  = errors.New("sec: empty signing secret")
	ErrInvalidToken = errors.New("sec: invalid token")
)

// UserClaims carries the user id as `id`
type UserClaims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 user tokens
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration // 0 = no exp claim
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// SetClock replaces time.Now for iat/exp
func (i *TokenIssuer) SetClock(now func() time.Time) {
	i.now = now
}

func (i *TokenIssuer) Issue(userID string) (string, error) {
	now := i.now()
	claims := UserClaims{
		ID:               userID,
		RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(now)},
	}
	if i.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify returns the user id of a valid token
func (i *TokenIssuer) Verify(signedToken string) (string, error) {
	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(signedToken, claims, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}

// GenerateHexToken returns byteLength random bytes, hex encoded
func GenerateHexToken(byteLength int) (string, error) {
	if byteLength <= 0 {
		byteLength = 32 // default 32 bytes (256 bits)
	}
	bytes := make([]byte, byteLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("rand.Read: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

func HashHexSHA256(data string) string {
	// SHA256 checksum (digest) of the data
	checksum := sha256.Sum256([]byte(data))
	// hexadecimal encoding
	return hex.EncodeToString(checksum[:])
}
