//go:build !linux

package rt

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewEntropySeededRNG seeds a worker's generator from crypto/rand on
// platforms without getrandom(2).
func NewEntropySeededRNG() (*RNG, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return nil, fmt.Errorf("rt: seed RNG from crypto/rand: %w", err)
	}
	seed1 := binary.LittleEndian.Uint64(buf[0:8])
	seed2 := binary.LittleEndian.Uint64(buf[8:16])
	return NewRNG(seed1, seed2), nil
}
