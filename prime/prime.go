// Package prime generates the probable primes used for RSA moduli.
//
// Candidates are uniform odd integers of an exact bit length, tested with
// big.Int.ProbablyPrime: the requested number of Miller-Rabin rounds with
// pseudo-random bases, followed by a Baillie-PSW test.
//
// The search loop in Generate is unbounded. By the prime number theorem a
// random odd b-bit integer is prime with probability about 2/(b·ln 2), so
// the expected number of candidates is O(b): roughly 355 for 512-bit and
// 710 for 1024-bit primes. Only the pair search carries an explicit retry cap.
package prime

import (
	"io"
	"math/big"

	rsacore "github.com/BackendStack21/rsa-core-go"
	"github.com/BackendStack21/rsa-core-go/logging"
	"github.com/BackendStack21/rsa-core-go/utils"
)

const (
	// MinBits is the smallest prime size Generate accepts.
	MinBits = 2

	// SeparationMargin is subtracted from nlen/2 to get the exponent of the
	// minimum distance between the two primes of a pair.
	SeparationMargin = 100
)

// Generate returns a probable prime with exactly bits bits.
// rand is the entropy source; nil means utils.RandReader.
func Generate(rand io.Reader, bits, confidence int) (*big.Int, error) {
	if bits < MinBits {
		return nil, rsacore.NewError("prime.Generate", rsacore.ErrInvalidParameter, "bit length %d is below %d", bits, MinBits)
	}
	return generate(rand, bits, confidence, false)
}

// generate draws candidates until one passes the primality test. With
// topTwo set the second-highest bit is forced as well, so the product of two
// such b-bit primes always has exactly 2b bits.
func generate(rand io.Reader, bits, confidence int, topTwo bool) (*big.Int, error) {
	if confidence < 1 {
		return nil, rsacore.NewError("prime.Generate", rsacore.ErrInvalidParameter, "confidence must be at least 1, got %d", confidence)
	}
	if err := utils.CheckLength(bits, utils.MaxBitLength); err != nil {
		return nil, rsacore.WrapError("prime.Generate", rsacore.ErrInvalidParameter, err)
	}

	for {
		candidate, err := utils.RandomBits(rand, bits)
		if err != nil {
			return nil, rsacore.WrapError("prime.Generate", rsacore.ErrKeyGeneration, err)
		}
		if topTwo && bits >= 2 {
			candidate.SetBit(candidate, bits-2, 1)
		}
		candidate.SetBit(candidate, 0, 1)

		if candidate.ProbablyPrime(confidence) {
			return candidate, nil
		}
	}
}

// SeparationBound returns 2^(nlen/2 - 100), the distance two primes of an
// nlen-bit modulus must exceed. It is nil when nlen/2 <= 100.
func SeparationBound(nlen int) *big.Int {
	exp := nlen/2 - SeparationMargin
	if exp <= 0 {
		return nil
	}
	return new(big.Int).Lsh(big.NewInt(1), uint(exp))
}

// WellSeparated reports whether |p - q| > SeparationBound(nlen).
func WellSeparated(p, q *big.Int, nlen int) bool {
	bound := SeparationBound(nlen)
	if bound == nil {
		return false
	}
	diff := new(big.Int).Sub(p, q)
	return diff.Abs(diff).Cmp(bound) > 0
}

// GeneratePair returns two probable primes of nlen/2 bits each satisfying
// |p - q| > 2^(nlen/2 - 100). Both primes have their top two bits set, so
// p·q has exactly 2·(nlen/2) bits.
//
// When the separation check fails only q is regenerated, at most maxRetries
// times; after that the call fails with ErrKeyGeneration.
func GeneratePair(rand io.Reader, nlen, confidence, maxRetries int, log logging.Logger) (p, q *big.Int, err error) {
	half := nlen / 2
	if half <= SeparationMargin {
		return nil, nil, rsacore.NewError("prime.GeneratePair", rsacore.ErrInvalidParameter,
			"nlen %d too small for the separation constraint (nlen/2 must exceed %d)", nlen, SeparationMargin)
	}
	if maxRetries < 0 {
		return nil, nil, rsacore.NewError("prime.GeneratePair", rsacore.ErrInvalidParameter, "negative retry cap %d", maxRetries)
	}
	log = logging.OrNop(log)

	p, err = generate(rand, half, confidence, true)
	if err != nil {
		return nil, nil, err
	}

	for attempt := 0; attempt <= maxRetries; attempt++ {
		q, err = generate(rand, half, confidence, true)
		if err != nil {
			utils.ZeroizeInt(p)
			return nil, nil, err
		}
		if WellSeparated(p, q, nlen) {
			return p, q, nil
		}
		log.Debug("prime pair too close, regenerating q",
			"attempt", attempt+1, "max_retries", maxRetries, logging.Redacted("q"))
		utils.ZeroizeInt(q)
	}

	utils.ZeroizeInt(p)
	return nil, nil, rsacore.NewError("prime.GeneratePair", rsacore.ErrKeyGeneration,
		"separation constraint not met after %d retries", maxRetries)
}
