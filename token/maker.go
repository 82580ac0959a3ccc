package token

import (
	"time"

	"github.com/google/uuid"
)

// Maker is anything that can create and verify access tokens.
type Maker interface {
	CreateToken(userID uuid.UUID, username string, role string, duration time.Duration) (string, *Payload, error)

	VerifyToken(token string) (*Payload, error)
}
