package middleware

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidLiveToken = errors.New("invalid live token")

const defaultLiveTokenTTL = 15 * time.Minute

// LiveClaims scope a websocket subscription to one customer's tournament.
type LiveClaims struct {
	CustomerID   string `json:"customer_id"`
	TournamentID string `json:"tournament_id"`
	jwt.RegisteredClaims
}

type LiveTokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewLiveTokenIssuer(secret string, ttl time.Duration) *LiveTokenIssuer {
	if ttl <= 0 {
		ttl = defaultLiveTokenTTL
	}
	return &LiveTokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *LiveTokenIssuer) Issue(customerID, tournamentID string) (string, error) {
	now := i.now()
	claims := LiveClaims{
		CustomerID:   customerID,
		TournamentID: tournamentID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign live token: %w", err)
	}
	return token, nil
}

// Parse validates the token and returns its claims.
func (i *LiveTokenIssuer) Parse(tokenString string) (*LiveClaims, error) {
	claims := &LiveClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLiveToken, err)
	}
	if !token.Valid || claims.CustomerID == "" || claims.TournamentID == "" {
		return nil, ErrInvalidLiveToken
	}
	return claims, nil
}
