package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/oklog/ulid/v2"

	"github.com/hrstack/onboarding-service/internal/domain"
	"github.com/hrstack/onboarding-service/pkg/errs"
)

// TokenClaims is what gets embedded in every access token.
type TokenClaims struct {
	UserID int64
	Email  string
	Role   domain.Role
	Name   string
	Exp    time.Time
}

// CreateJWTToken signs an HS256 access token for the user. The expiry is
// returned alongside the token so the session row can carry the same value.
func CreateJWTToken(user domain.User, jwtSecretKey string, ttl time.Duration) (string, time.Time, error) {
	exp := time.Now().UTC().Add(ttl)

	claims := jwt.MapClaims{}
	// jti keeps tokens unique even when two are minted for the same user within
	// the same second, so rotating a session always changes the stored hash.
	claims["jti"] = ulid.Make().String()
	claims["userID"] = user.ID
	claims["email"] = user.Email
	claims["role"] = string(user.Role)
	claims["name"] = user.FirstName + " " + user.LastName
	claims["exp"] = exp.Unix()
	claims["iat"] = time.Now().UTC().Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(jwtSecretKey))
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, exp, nil
}

// ParseJWTToken validates the signature and expiry and returns the embedded
// claims. Any parse failure is reported as ErrUnauthorized.
func ParseJWTToken(raw string, jwtSecretKey string) (TokenClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errs.ErrUnauthorized
		}
		return []byte(jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return TokenClaims{}, errs.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, errs.ErrUnauthorized
	}

	userID, ok := claims["userID"].(float64)
	if !ok {
		return TokenClaims{}, errs.ErrUnauthorized
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	name, _ := claims["name"].(string)
	exp, _ := claims["exp"].(float64)

	return TokenClaims{
		UserID: int64(userID),
		Email:  email,
		Role:   domain.Role(role),
		Name:   name,
		Exp:    time.Unix(int64(exp), 0).UTC(),
	}, nil
}

// HashToken returns the hex SHA-256 of a raw token. Sessions are looked up by
// this hash; the raw token is never persisted.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
