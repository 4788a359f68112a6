// Package keygen builds RSA key pairs: it draws a separated prime pair,
// derives the modulus and totient, validates or selects the public exponent
// and computes the private exponent.
package keygen

import (
	"errors"
	"io"
	"math/big"

	rsacore "github.com/BackendStack21/rsa-core-go"
	"github.com/BackendStack21/rsa-core-go/core"
	"github.com/BackendStack21/rsa-core-go/logging"
	"github.com/BackendStack21/rsa-core-go/ntheory"
	"github.com/BackendStack21/rsa-core-go/prime"
	"github.com/BackendStack21/rsa-core-go/utils"
)

const (
	// DomainSeed separates the seeded DRBG from other uses of the seed.
	DomainSeed = "rsa-core-keygen-seed-v1"
)

var one = big.NewInt(1)

// Options controls a single key generation.
type Options struct {
	// PublicExponent is the caller's choice of e. Nil selects 65537.
	PublicExponent *big.Int

	// RetryCustomExponent lets a caller-supplied exponent that shares a
	// factor with the totient trigger prime regeneration instead of an
	// immediate ErrExponentNotCoprime. The exponent itself is never replaced.
	RetryCustomExponent bool

	// Rand is the entropy source. Nil means utils.RandReader.
	Rand io.Reader

	// Logger receives retry events. Secret values are never logged.
	Logger logging.Logger
}

// GenerateKeyPair generates a key pair with an nlen-bit modulus.
// A nil publicExponent selects 65537.
func GenerateKeyPair(nlen int, publicExponent *big.Int) (*rsacore.KeyPair, error) {
	return Generate(core.ParamsForBits(nlen), Options{PublicExponent: publicExponent})
}

// GenerateKeyPairForLevel generates a key pair for a named parameter set with
// the default public exponent.
func GenerateKeyPairForLevel(level rsacore.SecurityLevel) (*rsacore.KeyPair, error) {
	params, err := core.GetParams(level)
	if err != nil {
		return nil, err
	}
	return Generate(params, Options{})
}

// GenerateKeyPairFromSeed generates a deterministic key pair from seed.
// The same (params, seed, publicExponent) always yields the same key pair.
func GenerateKeyPairFromSeed(params rsacore.Params, seed []byte, publicExponent *big.Int) (*rsacore.KeyPair, error) {
	if err := utils.ValidateSeedEntropy(seed); err != nil {
		return nil, rsacore.WrapError("GenerateKeyPairFromSeed", rsacore.ErrInvalidParameter, err)
	}
	return Generate(params, Options{
		PublicExponent: publicExponent,
		Rand:           utils.NewShakeReader(DomainSeed, seed),
	})
}

// Generate runs the full key generation with explicit parameters.
func Generate(params rsacore.Params, opts Options) (*rsacore.KeyPair, error) {
	if err := core.ValidateParams(params); err != nil {
		return nil, err
	}

	custom := opts.PublicExponent != nil
	e := big.NewInt(rsacore.DefaultPublicExponent)
	if custom {
		e = new(big.Int).Set(opts.PublicExponent)
		if e.Cmp(one) <= 0 {
			return nil, rsacore.NewError("Generate", rsacore.ErrInvalidParameter, "public exponent must exceed 1")
		}
	}

	log := logging.OrNop(opts.Logger).With("bits", params.ModulusBits, "totient", params.Totient.String())
	retryAllowed := !custom || opts.RetryCustomExponent

	for attempt := 0; attempt <= params.ExponentRetries; attempt++ {
		p, q, err := prime.GeneratePair(opts.Rand, params.ModulusBits, params.Confidence, params.PrimePairRetries, log)
		if err != nil {
			return nil, err
		}

		kp, err := assemble(p, q, e, params.Totient)
		utils.ZeroizeInt(p)
		utils.ZeroizeInt(q)
		if err == nil {
			log.Debug("key pair generated", "attempt", attempt+1)
			return kp, nil
		}
		if !retryAllowed || !errors.Is(err, rsacore.ErrExponentNotCoprime) {
			return nil, err
		}
		log.Debug("public exponent not coprime with totient, regenerating primes",
			"attempt", attempt+1, "max_retries", params.ExponentRetries,
			logging.Redacted("p"), logging.Redacted("q"))
	}

	return nil, rsacore.NewError("Generate", rsacore.ErrKeyGeneration,
		"no prime pair compatible with e=%s after %d retries", e.String(), params.ExponentRetries)
}

// FromPrimes assembles a key pair from known primes p and q. A nil e selects
// 65537. The primes are checked for primality but not for separation, so
// FromPrimes also accepts the small primes of textbook examples.
func FromPrimes(p, q, e *big.Int, mode rsacore.TotientMode) (*rsacore.KeyPair, error) {
	if p == nil || q == nil {
		return nil, rsacore.NewError("FromPrimes", rsacore.ErrInvalidParameter, "nil prime")
	}
	if !p.ProbablyPrime(20) || !q.ProbablyPrime(20) {
		return nil, rsacore.NewError("FromPrimes", rsacore.ErrInvalidParameter, "p and q must be prime")
	}
	if p.Cmp(q) == 0 {
		return nil, rsacore.NewError("FromPrimes", rsacore.ErrInvalidParameter, "p and q must be distinct")
	}
	if e == nil {
		e = big.NewInt(rsacore.DefaultPublicExponent)
	}
	if e.Cmp(one) <= 0 {
		return nil, rsacore.NewError("FromPrimes", rsacore.ErrInvalidParameter, "public exponent must exceed 1")
	}
	return assemble(p, q, e, mode)
}

// assemble computes n, the totient and d, validating e against the totient.
func assemble(p, q, e *big.Int, mode rsacore.TotientMode) (*rsacore.KeyPair, error) {
	t, err := ntheory.Totient(mode, p, q)
	if err != nil {
		return nil, err
	}
	defer utils.ZeroizeInt(t)

	if err := checkExponent(e, t); err != nil {
		return nil, err
	}

	d, err := ntheory.ModInverse(e, t)
	if err != nil {
		// Unreachable once checkExponent passed.
		return nil, err
	}
	defer utils.ZeroizeInt(d)

	n := new(big.Int).Mul(p, q)
	return rsacore.NewKeyPair(n, e, d, p, q, mode)
}

// checkExponent enforces 1 < e < t and gcd(e, t) = 1.
func checkExponent(e, t *big.Int) error {
	if e.Cmp(one) <= 0 {
		return rsacore.NewError("checkExponent", rsacore.ErrInvalidParameter, "public exponent must exceed 1")
	}
	if e.Cmp(t) >= 0 {
		return rsacore.NewError("checkExponent", rsacore.ErrExponentNotCoprime, "public exponent must be below the totient")
	}
	if !ntheory.IsCoprime(e, t) {
		return rsacore.NewError("checkExponent", rsacore.ErrExponentNotCoprime, "gcd(e, totient) != 1")
	}
	return nil
}
