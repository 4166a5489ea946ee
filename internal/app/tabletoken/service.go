package tabletoken

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// Service issues short-lived tokens that let clients attach to a table's
// dealt-card ledger stream: observers watch the table visualization, and
// reconnecting players prove their claim to a frozen seat.
type Service struct {
	secret string
	issuer string
	ttl    time.Duration
}

const (
	// ActionObserve grants read-only access to a table's ledger stream.
	ActionObserve = "observe"
	// ActionResume lets a disconnected player reclaim a specific seat.
	ActionResume = "resume"
)

// NewService builds a token service. A zero ttl defaults to one hour.
func NewService(secret, issuer string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{secret: secret, issuer: issuer, ttl: ttl}
}

// GenerateToken signs a token binding a user to a match for the given
// action. Resume tokens additionally pin the seat being reclaimed.
func (s *Service) GenerateToken(user, action, matchID string, seat int) (string, error) {
	if s == nil {
		return "", fmt.Errorf("table token service is nil")
	}
	if user == "" {
		return "", fmt.Errorf("user is required")
	}
	if matchID == "" {
		return "", fmt.Errorf("match id is required")
	}
	if s.secret == "" || s.issuer == "" {
		return "", fmt.Errorf("table token config is incomplete")
	}

	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": user,
		"exp": time.Now().Add(s.ttl).Unix(),
		"jti": fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Int63()),
		"act": action,
		"mid": matchID,
	}

	switch action {
	case ActionObserve:
	case ActionResume:
		if seat < 0 {
			return "", fmt.Errorf("resume tokens require a seat")
		}
		claims["seat"] = seat
	default:
		return "", fmt.Errorf("unsupported table token action: %s", action)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify parses a token and returns its claims after checking the signature
// and issuer.
func (s *Service) Verify(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse table token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid table token")
	}
	if iss, _ := claims["iss"].(string); iss != s.issuer {
		return nil, fmt.Errorf("table token issued by %q, want %q", claims["iss"], s.issuer)
	}
	return claims, nil
}
