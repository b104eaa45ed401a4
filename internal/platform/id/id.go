package id

import (
	"crypto/rand"
	"encoding/hex"
)

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

// RandomHex returns 4 random bytes hex encoded. Task ids are typed by hand
// in the CLI and palette.
type RandomHex struct{}

func (RandomHex) New() string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
