package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"math/big"
	"runtime"
)

// RandReader is the default entropy source. Tests may replace it.
var RandReader io.Reader = rand.Reader

// SecureRandomBytes generates n cryptographically secure random bytes.
// It uses crypto/rand, which relies on the operating system's CSPRNG.
func SecureRandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(RandReader, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// RandomBits returns a uniform random integer occupying exactly bits bits:
// the top bit is forced to 1, the remaining bits-1 bits are uniform.
// A nil reader means RandReader.
func RandomBits(r io.Reader, bits int) (*big.Int, error) {
	if bits < 1 {
		return nil, ErrInvalidLength
	}
	if err := CheckLength(bits, MaxBitLength); err != nil {
		return nil, err
	}
	if r == nil {
		r = RandReader
	}

	buf := make([]byte, (bits+7)/8)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("reading entropy: %w", err)
	}

	// Clear the excess high bits of the leading byte, then set the top bit.
	excess := uint(len(buf)*8 - bits)
	buf[0] &= byte(0xFF >> excess)
	buf[0] |= byte(0x80 >> excess)

	x := new(big.Int).SetBytes(buf)
	Zeroize(buf)
	return x, nil
}

// RandomInt generates a uniform random integer in [0, max).
// It uses rejection sampling to ensure a uniform distribution.
func RandomInt(r io.Reader, max *big.Int) (*big.Int, error) {
	if max == nil || max.Sign() <= 0 {
		return nil, errors.New("max must be positive")
	}
	if r == nil {
		r = RandReader
	}
	if max.Cmp(big.NewInt(1)) == 0 {
		return new(big.Int), nil
	}

	bitsNeeded := new(big.Int).Sub(max, big.NewInt(1)).BitLen()
	buf := make([]byte, (bitsNeeded+7)/8)
	excess := uint(len(buf)*8 - bitsNeeded)

	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		buf[0] &= byte(0xFF >> excess)

		value := new(big.Int).SetBytes(buf)
		if value.Cmp(max) < 0 {
			return value, nil
		}
	}
}

// ValidateSeedEntropy checks if a seed has sufficient entropy.
// It performs basic statistical tests to reject obviously weak seeds (e.g., all zeros, sequential).
// This is a sanity check, not a rigorous randomness test.
func ValidateSeedEntropy(seed []byte) error {
	if len(seed) < MinSeedLength {
		return fmt.Errorf("seed must be at least %d bytes", MinSeedLength)
	}

	first := seed[0]
	allSame := true
	for i := 1; i < len(seed); i++ {
		if seed[i] != first {
			allSame = false
			break
		}
	}
	if allSame {
		return errors.New("seed has low entropy: all bytes are identical")
	}

	isAscending := true
	isDescending := true
	for i := 1; i < len(seed); i++ {
		if seed[i] != seed[i-1]+1 {
			isAscending = false
		}
		if seed[i] != seed[i-1]-1 {
			isDescending = false
		}
		if !isAscending && !isDescending {
			break
		}
	}
	if isAscending || isDescending {
		return errors.New("seed has low entropy: sequential pattern detected")
	}

	unique := make(map[byte]struct{})
	for _, b := range seed {
		unique[b] = struct{}{}
		if len(unique) >= 8 {
			break
		}
	}
	if len(unique) < 8 {
		return errors.New("seed has low entropy: insufficient byte diversity")
	}

	return nil
}

// ConstantTimeEqual compares two byte slices in constant time.
// This function leaks only the length of the slices.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Zeroize overwrites a byte slice with zeros.
// Uses runtime.KeepAlive to prevent compiler optimization from eliminating the stores.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// ZeroizeInt overwrites the words backing x and sets it to zero.
// math/big may have copied the value during earlier arithmetic; this only
// clears the current backing array.
func ZeroizeInt(x *big.Int) {
	if x == nil {
		return
	}
	words := x.Bits()
	for i := range words {
		words[i] = 0
	}
	runtime.KeepAlive(words)
	x.SetInt64(0)
}
