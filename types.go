package rsacore

import (
	"fmt"
	"math/big"
)

// SecurityLevel names a parameter set.
type SecurityLevel string

const (
	// RSA2048 uses a 2048-bit modulus.
	RSA2048 SecurityLevel = "RSA-2048"
	// RSA3072 uses a 3072-bit modulus.
	RSA3072 SecurityLevel = "RSA-3072"
	// RSA4096 uses a 4096-bit modulus.
	RSA4096 SecurityLevel = "RSA-4096"
	// Custom marks parameters built for an arbitrary modulus size.
	Custom SecurityLevel = "custom"
)

// DefaultPublicExponent is F4 = 2^16 + 1.
const DefaultPublicExponent = 65537

// TotientMode selects how the exponent pair is sized.
type TotientMode int

const (
	// Carmichael uses the reduced totient λ(n) = lcm(p-1, q-1).
	Carmichael TotientMode = iota
	// Euler uses φ(n) = (p-1)(q-1).
	Euler
)

func (m TotientMode) String() string {
	switch m {
	case Carmichael:
		return "carmichael"
	case Euler:
		return "euler"
	default:
		return fmt.Sprintf("TotientMode(%d)", int(m))
	}
}

// ParseTotientMode maps "carmichael"/"lambda" and "euler"/"phi" to a mode.
func ParseTotientMode(s string) (TotientMode, error) {
	switch s {
	case "carmichael", "lambda", "":
		return Carmichael, nil
	case "euler", "phi":
		return Euler, nil
	default:
		return 0, NewError("ParseTotientMode", ErrInvalidParameter, "unknown totient mode %q", s)
	}
}

// =============================================================================
// Parameter Types
// =============================================================================

// Params contains the complete parameter set for key generation.
type Params struct {
	Level            SecurityLevel `json:"level"`
	ModulusBits      int           `json:"modulus_bits"`       // nlen
	Confidence       int           `json:"confidence"`         // Miller-Rabin rounds per candidate
	PrimePairRetries int           `json:"prime_pair_retries"` // q regenerations for the separation constraint
	ExponentRetries  int           `json:"exponent_retries"`   // p/q regenerations when e is not coprime
	Totient          TotientMode   `json:"totient"`
}

// =============================================================================
// Key Types
// =============================================================================

// PublicKey is the public half (e, n). It carries no secret material.
type PublicKey struct {
	N *big.Int
	E *big.Int
}

// PrivateKey is the private half (d, n).
// Callers own D exclusively and should wipe it with utils.ZeroizeInt when done.
type PrivateKey struct {
	N *big.Int
	D *big.Int
}

// KeyPair holds n, e, d and the secret primes p, q.
// It is immutable: accessors return copies.
type KeyPair struct {
	n, e, d, p, q *big.Int
	mode          TotientMode
}

// NewKeyPair assembles a key pair from its components. The inputs are copied.
// It performs no arithmetic validation; see keygen.Validate.
func NewKeyPair(n, e, d, p, q *big.Int, mode TotientMode) (*KeyPair, error) {
	if n == nil || e == nil || d == nil || p == nil || q == nil {
		return nil, NewError("NewKeyPair", ErrInvalidParameter, "nil component")
	}
	return &KeyPair{
		n:    new(big.Int).Set(n),
		e:    new(big.Int).Set(e),
		d:    new(big.Int).Set(d),
		p:    new(big.Int).Set(p),
		q:    new(big.Int).Set(q),
		mode: mode,
	}, nil
}

// N returns a copy of the modulus.
func (kp *KeyPair) N() *big.Int { return new(big.Int).Set(kp.n) }

// E returns a copy of the public exponent.
func (kp *KeyPair) E() *big.Int { return new(big.Int).Set(kp.e) }

// D returns a copy of the private exponent.
func (kp *KeyPair) D() *big.Int { return new(big.Int).Set(kp.d) }

// P returns a copy of the first secret prime.
func (kp *KeyPair) P() *big.Int { return new(big.Int).Set(kp.p) }

// Q returns a copy of the second secret prime.
func (kp *KeyPair) Q() *big.Int { return new(big.Int).Set(kp.q) }

// TotientMode reports which totient d was derived from.
func (kp *KeyPair) TotientMode() TotientMode { return kp.mode }

// Bits returns the bit length of the modulus.
func (kp *KeyPair) Bits() int { return kp.n.BitLen() }

// PublicKey returns the (e, n) view.
func (kp *KeyPair) PublicKey() *PublicKey {
	return &PublicKey{N: kp.N(), E: kp.E()}
}

// PrivateKey returns the (d, n) view.
func (kp *KeyPair) PrivateKey() *PrivateKey {
	return &PrivateKey{N: kp.N(), D: kp.D()}
}

// String never prints secret components.
func (kp *KeyPair) String() string {
	return fmt.Sprintf("KeyPair{bits: %d, e: %s, totient: %s}", kp.n.BitLen(), kp.e.String(), kp.mode)
}

// Size returns the modulus length in bytes.
func (pk *PublicKey) Size() int {
	return (pk.N.BitLen() + 7) / 8
}

// Size returns the modulus length in bytes.
func (sk *PrivateKey) Size() int {
	return (sk.N.BitLen() + 7) / 8
}
