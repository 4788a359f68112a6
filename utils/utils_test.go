package utils

import (
	"bytes"
	"math/big"
	"testing"
)

func TestRandomBits(t *testing.T) {
	for _, bits := range []int{1, 2, 7, 8, 9, 63, 64, 65, 255, 256, 1024} {
		for i := 0; i < 20; i++ {
			x, err := RandomBits(nil, bits)
			if err != nil {
				t.Fatalf("RandomBits(%d) failed: %v", bits, err)
			}
			if x.BitLen() != bits {
				t.Errorf("RandomBits(%d) returned %d-bit value", bits, x.BitLen())
			}
		}
	}
}

func TestRandomBits_Invalid(t *testing.T) {
	if _, err := RandomBits(nil, 0); err == nil {
		t.Error("RandomBits(0) should fail")
	}
	if _, err := RandomBits(nil, -3); err == nil {
		t.Error("RandomBits(-3) should fail")
	}
	if _, err := RandomBits(nil, MaxBitLength+1); err == nil {
		t.Error("RandomBits above MaxBitLength should fail")
	}
}

func TestRandomInt(t *testing.T) {
	// Test edge cases
	if _, err := RandomInt(nil, big.NewInt(0)); err == nil {
		t.Error("RandomInt(0) should fail")
	}

	val, err := RandomInt(nil, big.NewInt(1))
	if err != nil {
		t.Errorf("RandomInt(1) failed: %v", err)
	}
	if val.Sign() != 0 {
		t.Errorf("RandomInt(1) should return 0, got %s", val)
	}

	// Test range
	max := big.NewInt(100)
	for i := 0; i < 1000; i++ {
		val, err := RandomInt(nil, max)
		if err != nil {
			t.Fatalf("RandomInt failed: %v", err)
		}
		if val.Sign() < 0 || val.Cmp(max) >= 0 {
			t.Errorf("RandomInt returned value out of range: %s", val)
		}
	}
}

func TestValidateSeedEntropy(t *testing.T) {
	// Test all zeros
	zeros := make([]byte, 32)
	if err := ValidateSeedEntropy(zeros); err == nil {
		t.Error("ValidateSeedEntropy should reject all zeros")
	}

	// Test sequential
	seq := make([]byte, 32)
	for i := range seq {
		seq[i] = byte(i)
	}
	if err := ValidateSeedEntropy(seq); err == nil {
		t.Error("ValidateSeedEntropy should reject sequential bytes")
	}

	// Test short
	if err := ValidateSeedEntropy(make([]byte, 16)); err == nil {
		t.Error("ValidateSeedEntropy should reject short seeds")
	}

	// Test good seed
	good, _ := SecureRandomBytes(32)
	if err := ValidateSeedEntropy(good); err != nil {
		t.Errorf("ValidateSeedEntropy rejected good seed: %v", err)
	}
}

func TestConstantTimeEqual(t *testing.T) {
	a := []byte{1, 2, 3}
	b := []byte{1, 2, 3}
	c := []byte{1, 2, 4}

	if !ConstantTimeEqual(a, b) {
		t.Error("ConstantTimeEqual failed for equal slices")
	}
	if ConstantTimeEqual(a, c) {
		t.Error("ConstantTimeEqual passed for unequal slices")
	}
	if ConstantTimeEqual(a, a[:2]) {
		t.Error("ConstantTimeEqual passed for different lengths")
	}
}

func TestSecureRandomBytes(t *testing.T) {
	b, err := SecureRandomBytes(32)
	if err != nil {
		t.Fatalf("SecureRandomBytes failed: %v", err)
	}
	if len(b) != 32 {
		t.Errorf("Expected 32 bytes, got %d", len(b))
	}

	b2, _ := SecureRandomBytes(32)
	if bytes.Equal(b, b2) {
		t.Error("SecureRandomBytes returned duplicate values")
	}
}

func TestShakeReader_Deterministic(t *testing.T) {
	seed := []byte("rsa-core deterministic reader seed")

	out1 := make([]byte, 100)
	out2 := make([]byte, 100)
	NewShakeReader("test", seed).Read(out1)

	// Reading in pieces yields the same stream.
	r := NewShakeReader("test", seed)
	r.Read(out2[:37])
	r.Read(out2[37:])

	if !bytes.Equal(out1, out2) {
		t.Error("ShakeReader output depends on read sizes")
	}

	out3 := make([]byte, 100)
	NewShakeReader("other", seed).Read(out3)
	if bytes.Equal(out1, out3) {
		t.Error("ShakeReader ignores the domain")
	}
}

func TestHashWithDomain(t *testing.T) {
	data := []byte("data")
	h1 := HashWithDomain("a", data)
	h2 := HashWithDomain("b", data)
	if len(h1) != 32 {
		t.Errorf("expected 32-byte hash, got %d", len(h1))
	}
	if bytes.Equal(h1, h2) {
		t.Error("HashWithDomain should separate domains")
	}
}
