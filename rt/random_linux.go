//go:build linux

package rt

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/unix"
)

// NewEntropySeededRNG seeds a worker's generator from the kernel's CSPRNG via
// getrandom(2), matching the reference's _rdrand64_step-based
// Random_Seed_HighEntropy.
func NewEntropySeededRNG() (*RNG, error) {
	var buf [16]byte
	if _, err := unix.Getrandom(buf[:], 0); err != nil {
		return nil, fmt.Errorf("rt: seed RNG from getrandom: %w", err)
	}
	seed1 := binary.LittleEndian.Uint64(buf[0:8])
	seed2 := binary.LittleEndian.Uint64(buf[8:16])
	return NewRNG(seed1, seed2), nil
}
