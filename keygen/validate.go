package keygen

import (
	"math/big"

	rsacore "github.com/BackendStack21/rsa-core-go"
	"github.com/BackendStack21/rsa-core-go/ntheory"
)

// Validate checks every key pair invariant: n = p·q, p != q, 1 < e < t,
// gcd(e, t) = 1 and d·e ≡ 1 (mod t), where t is the totient recorded in
// the key pair. It does not re-test primality.
func Validate(kp *rsacore.KeyPair) error {
	if kp == nil {
		return rsacore.NewError("Validate", rsacore.ErrInvalidParameter, "nil key pair")
	}
	n, e, d, p, q := kp.N(), kp.E(), kp.D(), kp.P(), kp.Q()

	if p.Cmp(q) == 0 {
		return rsacore.NewError("Validate", rsacore.ErrInvalidParameter, "p == q")
	}
	if new(big.Int).Mul(p, q).Cmp(n) != 0 {
		return rsacore.NewError("Validate", rsacore.ErrInvalidParameter, "n != p·q")
	}

	t, err := ntheory.Totient(kp.TotientMode(), p, q)
	if err != nil {
		return err
	}
	if e.Cmp(one) <= 0 || e.Cmp(t) >= 0 {
		return rsacore.NewError("Validate", rsacore.ErrInvalidParameter, "e outside (1, t)")
	}
	if !ntheory.IsCoprime(e, t) {
		return rsacore.NewError("Validate", rsacore.ErrInvalidParameter, "gcd(e, t) != 1")
	}

	de := new(big.Int).Mul(d, e)
	if de.Mod(de, t).Cmp(one) != 0 {
		return rsacore.NewError("Validate", rsacore.ErrInvalidParameter, "d·e mod t != 1")
	}
	return nil
}
