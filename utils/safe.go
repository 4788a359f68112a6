// Package utils provides utility functions for rsa-core.
// This file contains the size limits and range checks shared by the
// generators, so a hostile size cannot trigger an unbounded allocation or
// prime search.

package utils

import (
	"errors"
	"fmt"
)

const (
	// MaxBitLength is the largest integer size, in bits, any generator will draw.
	MaxBitLength = 1 << 16

	// MaxModulusBits is the largest modulus accepted for key generation.
	MaxModulusBits = 16384

	// MinSeedLength is the minimum seed size for deterministic generation.
	MinSeedLength = 32
)

var (
	// ErrExceedsLimit indicates a value exceeds the allowed limit.
	ErrExceedsLimit = errors.New("value exceeds allowed limit")

	// ErrInvalidLength indicates an invalid length value.
	ErrInvalidLength = errors.New("invalid length")
)

// CheckLength validates that length is within [0, maxAllowed].
func CheckLength(length, maxAllowed int) error {
	if length < 0 {
		return ErrInvalidLength
	}
	if length > maxAllowed {
		return ErrExceedsLimit
	}
	return nil
}

// CheckRange validates that value is within [min, max].
func CheckRange(value, min, max int, name string) error {
	if value < min {
		return fmt.Errorf("%s must be at least %d, got %d: %w", name, min, value, ErrInvalidLength)
	}
	if value > max {
		return fmt.Errorf("%s must be at most %d, got %d: %w", name, max, value, ErrExceedsLimit)
	}
	return nil
}

// CheckPositive validates that value is > 0.
func CheckPositive(value int, name string) error {
	if value <= 0 {
		return errors.New(name + " must be positive")
	}
	return nil
}
