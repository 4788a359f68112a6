// Package ntheory implements the number-theoretic kernel of rsa-core:
// gcd, lcm, totients, modular inversion and modular exponentiation.
//
// Every function is pure. Inputs are never modified and every result is a
// freshly allocated *big.Int.
package ntheory

import (
	"math/big"

	rsacore "github.com/BackendStack21/rsa-core-go"
)

var one = big.NewInt(1)

// GCD returns the greatest common divisor of |a| and |b| using Euclid's
// algorithm. GCD(a, 0) = |a| and GCD(0, b) = |b|.
func GCD(a, b *big.Int) *big.Int {
	x := new(big.Int).Abs(a)
	y := new(big.Int).Abs(b)
	r := new(big.Int)
	for y.Sign() != 0 {
		r.Rem(x, y)
		x, y, r = y, r, x
	}
	return x
}

// LCM returns the least common multiple of |a| and |b|. LCM(a, 0) = 0.
// The product is formed exactly before the division by the gcd.
func LCM(a, b *big.Int) *big.Int {
	if a.Sign() == 0 || b.Sign() == 0 {
		return new(big.Int)
	}
	prod := new(big.Int).Mul(a, b)
	prod.Abs(prod)
	return prod.Quo(prod, GCD(a, b))
}

// ReducedTotient returns the Carmichael function λ(pq) = lcm(p-1, q-1).
func ReducedTotient(p, q *big.Int) *big.Int {
	p1 := new(big.Int).Sub(p, one)
	q1 := new(big.Int).Sub(q, one)
	return LCM(p1, q1)
}

// EulerTotient returns φ(pq) = (p-1)(q-1).
func EulerTotient(p, q *big.Int) *big.Int {
	p1 := new(big.Int).Sub(p, one)
	q1 := new(big.Int).Sub(q, one)
	return p1.Mul(p1, q1)
}

// Totient returns the totient of pq selected by mode.
func Totient(mode rsacore.TotientMode, p, q *big.Int) (*big.Int, error) {
	switch mode {
	case rsacore.Carmichael:
		return ReducedTotient(p, q), nil
	case rsacore.Euler:
		return EulerTotient(p, q), nil
	default:
		return nil, rsacore.NewError("Totient", rsacore.ErrInvalidParameter, "unknown totient mode %d", int(mode))
	}
}

// ModInverse returns x in [0, t) with e·x ≡ 1 (mod t), computed with the
// iterative extended Euclidean algorithm.
//
// It fails with ErrNoInverseExists when gcd(e, t) != 1 and with
// ErrInvalidParameter when t < 1. Every integer is congruent modulo 1, so
// ModInverse(e, 1) = 0.
func ModInverse(e, t *big.Int) (*big.Int, error) {
	if t.Sign() <= 0 {
		return nil, rsacore.NewError("ModInverse", rsacore.ErrInvalidParameter, "modulus must be positive")
	}
	if t.Cmp(one) == 0 {
		return new(big.Int), nil
	}

	// Invariant: oldS·e ≡ oldR (mod t) and s·e ≡ r (mod t).
	oldR := new(big.Int).Mod(e, t)
	r := new(big.Int).Set(t)
	oldS := big.NewInt(1)
	s := big.NewInt(0)

	quo := new(big.Int)
	tmp := new(big.Int)
	for r.Sign() != 0 {
		quo.DivMod(oldR, r, tmp)
		oldR, r, tmp = r, tmp, oldR

		tmp.Mul(quo, s)
		tmp.Sub(oldS, tmp)
		oldS, s, tmp = s, tmp, oldS
	}

	if oldR.Cmp(one) != 0 {
		return nil, rsacore.NewError("ModInverse", rsacore.ErrNoInverseExists, "gcd(e, t) = %s", oldR.String())
	}
	return oldS.Mod(oldS, t), nil
}

// ModPow returns base^exponent mod modulus by left-to-right binary
// exponentiation: every exponent bit costs one modular squaring, and set bits
// cost one further modular multiplication.
//
// modulus = 1 yields 0 for any base and exponent. exponent = 0 yields 1
// otherwise, including 0^0. A negative base is first reduced into
// [0, modulus). It fails with ErrInvalidParameter when modulus < 1 or
// exponent < 0.
func ModPow(base, exponent, modulus *big.Int) (*big.Int, error) {
	if err := checkPowArgs("ModPow", exponent, modulus); err != nil {
		return nil, err
	}
	if modulus.Cmp(one) == 0 {
		return new(big.Int), nil
	}

	b := new(big.Int).Mod(base, modulus)
	result := big.NewInt(1)
	for i := exponent.BitLen() - 1; i >= 0; i-- {
		result.Mul(result, result)
		result.Mod(result, modulus)
		if exponent.Bit(i) == 1 {
			result.Mul(result, b)
			result.Mod(result, modulus)
		}
	}
	return result, nil
}

func checkPowArgs(op string, exponent, modulus *big.Int) error {
	if modulus.Sign() <= 0 {
		return rsacore.NewError(op, rsacore.ErrInvalidParameter, "modulus must be positive")
	}
	if exponent.Sign() < 0 {
		return rsacore.NewError(op, rsacore.ErrInvalidParameter, "exponent must be non-negative")
	}
	return nil
}

// IsCoprime reports whether gcd(a, b) = 1.
func IsCoprime(a, b *big.Int) bool {
	return GCD(a, b).Cmp(one) == 0
}
