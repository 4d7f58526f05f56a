package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MatchTicketClaims is the signed handoff token minted when a room
// starts: proof, for the game-server process, of which user and which
// room a connecting game-client belongs to. The game-server may ignore
// it, but one that wants to authenticate its connecting clients without
// a second round trip to the Lobby can verify it locally with the same
// shared secret.
type MatchTicketClaims struct {
	UserID int64 `json:"user_id"`
	RoomID int64 `json:"room_id"`
	jwt.RegisteredClaims
}

// MintMatchTicket signs a short-lived ticket for one (userID, roomID)
// pair, valid for ttl.
func MintMatchTicket(userID, roomID int64, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("JWT_SECRET is required")
	}
	now := time.Now().UTC()
	claims := MatchTicketClaims{
		UserID: userID,
		RoomID: roomID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(secret))
}

// ParseMatchTicket validates and decodes a match ticket minted by
// MintMatchTicket.
func ParseMatchTicket(tokenString, secret string) (*MatchTicketClaims, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	tok, err := jwt.ParseWithClaims(tokenString, &MatchTicketClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithLeeway(5*time.Second))
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(*MatchTicketClaims)
	if !ok || !tok.Valid {
		return nil, fmt.Errorf("invalid match ticket")
	}
	return claims, nil
}

// AdminClaims is a signed operator token type. The admin dashboard's
// middleware does not read these tokens: it compares the caller's token
// against the static ADMIN_TOKEN.
type AdminClaims struct {
	Subject string `json:"sub"`
	jwt.RegisteredClaims
}

// MintAdminToken signs a dashboard session token for an operator.
func MintAdminToken(subject, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("JWT_SECRET is required")
	}
	now := time.Now().UTC()
	claims := AdminClaims{
		Subject: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(secret))
}

// ParseAdminToken validates and decodes a dashboard session token.
func ParseAdminToken(tokenString, secret string) (*AdminClaims, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	tok, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithLeeway(5*time.Second))
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(*AdminClaims)
	if !ok || !tok.Valid {
		return nil, fmt.Errorf("invalid admin token")
	}
	return claims, nil
}
