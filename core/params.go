// Package core provides parameter sets and validation for rsa-core.
package core

import (
	"errors"
	"fmt"

	rsacore "github.com/BackendStack21/rsa-core-go"
	"github.com/BackendStack21/rsa-core-go/prime"
	"github.com/BackendStack21/rsa-core-go/utils"
)

const (
	// MinModulusBits is the smallest modulus accepted for key generation.
	MinModulusBits = 512

	// DefaultPrimePairRetries caps q regenerations for the separation constraint.
	DefaultPrimePairRetries = 64

	// DefaultExponentRetries caps p/q regenerations when the default exponent
	// shares a factor with the totient.
	DefaultExponentRetries = 16
)

// RSA2048Params is the parameter set for a 2048-bit modulus.
// Miller-Rabin round counts follow FIPS 186-4 table C.3 for 2^-100 error
// probability; ProbablyPrime adds a Baillie-PSW test on top.
var RSA2048Params = rsacore.Params{
	Level:            rsacore.RSA2048,
	ModulusBits:      2048,
	Confidence:       5,
	PrimePairRetries: DefaultPrimePairRetries,
	ExponentRetries:  DefaultExponentRetries,
	Totient:          rsacore.Carmichael,
}

// RSA3072Params is the parameter set for a 3072-bit modulus.
var RSA3072Params = rsacore.Params{
	Level:            rsacore.RSA3072,
	ModulusBits:      3072,
	Confidence:       4,
	PrimePairRetries: DefaultPrimePairRetries,
	ExponentRetries:  DefaultExponentRetries,
	Totient:          rsacore.Carmichael,
}

// RSA4096Params is the parameter set for a 4096-bit modulus.
var RSA4096Params = rsacore.Params{
	Level:            rsacore.RSA4096,
	ModulusBits:      4096,
	Confidence:       4,
	PrimePairRetries: DefaultPrimePairRetries,
	ExponentRetries:  DefaultExponentRetries,
	Totient:          rsacore.Carmichael,
}

// GetParams returns the parameter set for the given security level.
func GetParams(level rsacore.SecurityLevel) (rsacore.Params, error) {
	switch level {
	case rsacore.RSA2048:
		return RSA2048Params, nil
	case rsacore.RSA3072:
		return RSA3072Params, nil
	case rsacore.RSA4096:
		return RSA4096Params, nil
	default:
		return rsacore.Params{}, rsacore.NewError("GetParams", rsacore.ErrInvalidParameter, "unknown security level: %s", level)
	}
}

// ParseLevel accepts "2048", "RSA-2048" and "RSA_2048" style names.
func ParseLevel(s string) (rsacore.SecurityLevel, error) {
	switch s {
	case "2048", "RSA-2048", "RSA_2048":
		return rsacore.RSA2048, nil
	case "3072", "RSA-3072", "RSA_3072":
		return rsacore.RSA3072, nil
	case "4096", "RSA-4096", "RSA_4096":
		return rsacore.RSA4096, nil
	default:
		return "", rsacore.NewError("ParseLevel", rsacore.ErrInvalidParameter, "invalid security level %q, must be one of: 2048, 3072, 4096", s)
	}
}

// ParamsForBits returns parameters for an arbitrary modulus size. Named sizes
// map to their level; other sizes get the round count of the nearest smaller
// named level, and 2048-bit defaults below that.
func ParamsForBits(bits int) rsacore.Params {
	switch {
	case bits == 2048:
		return RSA2048Params
	case bits == 3072:
		return RSA3072Params
	case bits == 4096:
		return RSA4096Params
	}

	params := RSA2048Params
	if bits > 3072 {
		params = RSA3072Params
	}
	params.Level = rsacore.Custom
	params.ModulusBits = bits
	if bits < 2048 {
		// Smaller primes need more rounds for the same error bound.
		params.Confidence = 8
	}
	return params
}

// ValidateParams validates the parameter set for security and consistency.
func ValidateParams(params rsacore.Params) error {
	if err := validate(params); err != nil {
		return rsacore.WrapError("ValidateParams", rsacore.ErrInvalidParameter, err)
	}
	return nil
}

func validate(params rsacore.Params) error {
	if err := utils.CheckRange(params.ModulusBits, MinModulusBits, utils.MaxModulusBits, "modulus bits"); err != nil {
		return err
	}
	// Each prime has ModulusBits/2 bits, so an odd size could not be met exactly.
	if params.ModulusBits%2 != 0 {
		return errors.New("modulus bits must be even")
	}
	if params.ModulusBits/2 <= prime.SeparationMargin {
		return fmt.Errorf("nlen/2 must exceed %d for the separation constraint", prime.SeparationMargin)
	}
	if err := utils.CheckPositive(params.Confidence, "confidence"); err != nil {
		return err
	}
	if params.PrimePairRetries < 0 {
		return errors.New("prime pair retries must not be negative")
	}
	if params.ExponentRetries < 0 {
		return errors.New("exponent retries must not be negative")
	}
	switch params.Totient {
	case rsacore.Carmichael, rsacore.Euler:
	default:
		return fmt.Errorf("unknown totient mode %d", int(params.Totient))
	}
	return nil
}
