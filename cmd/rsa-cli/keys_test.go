package main

import (
	"math/big"
	"testing"
)

func TestFingerprint_LengthPrefixed(t *testing.T) {
	// Both pairs concatenate to 0x01 0x02 0x03.
	a := fingerprint(big.NewInt(0x0102), big.NewInt(0x03))
	b := fingerprint(big.NewInt(0x01), big.NewInt(0x0203))
	if a == b {
		t.Error("distinct (n, e) pairs share a fingerprint")
	}
	if a != fingerprint(big.NewInt(0x0102), big.NewInt(0x03)) {
		t.Error("fingerprint is not deterministic")
	}
}

func TestSameFingerprint(t *testing.T) {
	fp := fingerprint(big.NewInt(3233), big.NewInt(17))
	if !sameFingerprint(fp, fingerprint(big.NewInt(3233), big.NewInt(17))) {
		t.Error("equal fingerprints compared unequal")
	}
	if sameFingerprint(fp, fingerprint(big.NewInt(3233), big.NewInt(7))) {
		t.Error("different fingerprints compared equal")
	}
	if sameFingerprint(fp, fp[:8]) {
		t.Error("truncated fingerprint compared equal")
	}
}
