package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog/log"
)

// Auth verifies the Bearer tokens the todo API is called with. Verification
// keys come from a JWKS endpoint when one is configured, otherwise from a
// shared HMAC secret (the mode the token subcommand and the tests use).
type Auth struct {
	keyfunc jwt.Keyfunc
	jwks    *keyfunc.JWKS
}

func New(jwksURL, secret string) (*Auth, error) {
	if jwksURL != "" {
		options := keyfunc.Options{
			RefreshErrorHandler: func(err error) {
				log.Error().Err(err).Msg("jwks refresh failed")
			},
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  time.Minute * 5,
			RefreshTimeout:    time.Second * 10,
			RefreshUnknownKID: true,
		}

		jwks, err := keyfunc.Get(jwksURL, options)
		if err != nil {
			return nil, fmt.Errorf("auth: failed to create JWKS from %s: %w", jwksURL, err)
		}

		return &Auth{keyfunc: jwks.Keyfunc, jwks: jwks}, nil
	}

	if secret == "" {
		return nil, errors.New("auth: either a jwks url or a secret is required")
	}

	key := []byte(secret)

	return &Auth{
		keyfunc: func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return key, nil
		},
	}, nil
}

// UserID authenticates the request and returns the token subject.
func (a *Auth) UserID(r *http.Request) (int64, error) {
	data := strings.Split(r.Header.Get("Authorization"), " ")
	if len(data) != 2 || data[0] != "Bearer" {
		return 0, errors.New("invalid authorization http header")
	}

	token, err := jwt.Parse(data[1], a.keyfunc)
	if err != nil {
		return 0, errors.New("failed to parse the JWT")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, errors.New("the token is not valid")
	}

	if err := claims.Valid(); err != nil {
		return 0, err
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, errors.New("the token has no subject")
	}

	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, errors.New("the token subject is not a user id")
	}

	return userID, nil
}

func (a *Auth) Close() {
	if a.jwks != nil {
		a.jwks.EndBackground()
	}
}

// Sign issues an HS256 token for the given user, for the HMAC verification
// mode only.
func Sign(secret string, userID int64, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
