package ntheory

import (
	"math/big"

	"filippo.io/bigmod"

	rsacore "github.com/BackendStack21/rsa-core-go"
)

// ModPowSecret has the contract of ModPow but runs the exponentiation through
// bigmod, whose running time depends only on the sizes of the operands and not
// on the bits of the exponent. Use it whenever the exponent is secret.
//
// bigmod needs an odd modulus greater than one; other moduli fall back to
// ModPow. RSA moduli are always odd.
func ModPowSecret(base, exponent, modulus *big.Int) (*big.Int, error) {
	if err := checkPowArgs("ModPowSecret", exponent, modulus); err != nil {
		return nil, err
	}
	if modulus.Cmp(one) == 0 {
		return new(big.Int), nil
	}
	if modulus.Bit(0) == 0 || exponent.Sign() == 0 {
		return ModPow(base, exponent, modulus)
	}

	m, err := bigmod.NewModulusFromBig(modulus)
	if err != nil {
		return nil, rsacore.WrapError("ModPowSecret", rsacore.ErrInvalidParameter, err)
	}

	reduced := new(big.Int).Mod(base, modulus)
	buf := make([]byte, m.Size())
	x, err := bigmod.NewNat().SetBytes(reduced.FillBytes(buf), m)
	if err != nil {
		return nil, rsacore.WrapError("ModPowSecret", rsacore.ErrInvalidParameter, err)
	}

	out := bigmod.NewNat().Exp(x, exponent.Bytes(), m)
	return new(big.Int).SetBytes(out.Bytes(m)), nil
}
