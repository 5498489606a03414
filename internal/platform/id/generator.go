package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Generator mints the public identifiers handed out in API responses.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator produces IDs of the form <unix-millis>-<hex tail>. The
// millisecond prefix keeps freshly minted IDs roughly creation-ordered; the
// random tail keeps them unguessable.
type RandomGenerator struct{}

func (RandomGenerator) NewID() (string, error) {
	tail := make([]byte, 6)
	if _, err := rand.Read(tail); err != nil {
		return "", fmt.Errorf("draw id entropy: %w", err)
	}

	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), hex.EncodeToString(tail)), nil
}
