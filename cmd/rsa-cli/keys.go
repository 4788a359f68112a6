package main

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"

	rsacore "github.com/BackendStack21/rsa-core-go"
	"github.com/BackendStack21/rsa-core-go/utils"
)

const domainFingerprint = "rsa-cli-fingerprint-v1"

// KeyExport is the on-disk form of a key pair or a public key. Integers are
// big-endian hex. A public key file carries only n and e.
type KeyExport struct {
	Bits        int    `json:"bits"`
	Totient     string `json:"totient,omitempty"`
	N           string `json:"n"`
	E           string `json:"e"`
	D           string `json:"d,omitempty"`
	P           string `json:"p,omitempty"`
	Q           string `json:"q,omitempty"`
	CreatedAt   string `json:"created_at"`
	Fingerprint string `json:"fingerprint"` // SHA3-256 over n and e, detects accidental corruption
}

// EncryptedExport represents an exported ciphertext.
type EncryptedExport struct {
	Fingerprint string `json:"fingerprint"`
	Ciphertext  string `json:"ciphertext"`
}

// fingerprint hashes len(n) || n || e. The length prefix keeps distinct
// (n, e) pairs from sharing an encoding.
func fingerprint(n, e *big.Int) string {
	nb := n.Bytes()
	data := binary.BigEndian.AppendUint32(nil, uint32(len(nb)))
	data = append(data, nb...)
	data = append(data, e.Bytes()...)
	return hex.EncodeToString(utils.HashWithDomain(domainFingerprint, data)[:16])
}

func sameFingerprint(a, b string) bool {
	return utils.ConstantTimeEqual([]byte(a), []byte(b))
}

func exportKeyPair(kp *rsacore.KeyPair, createdAt string) KeyExport {
	n, e := kp.N(), kp.E()
	return KeyExport{
		Bits:        kp.Bits(),
		Totient:     kp.TotientMode().String(),
		N:           n.Text(16),
		E:           e.Text(16),
		D:           kp.D().Text(16),
		P:           kp.P().Text(16),
		Q:           kp.Q().Text(16),
		CreatedAt:   createdAt,
		Fingerprint: fingerprint(n, e),
	}
}

func exportPublicKey(kp *rsacore.KeyPair, createdAt string) KeyExport {
	n, e := kp.N(), kp.E()
	return KeyExport{
		Bits:        kp.Bits(),
		N:           n.Text(16),
		E:           e.Text(16),
		CreatedAt:   createdAt,
		Fingerprint: fingerprint(n, e),
	}
}

func parseHex(name, s string) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("missing field %q", name)
	}
	v, ok := new(big.Int).SetString(s, 16)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("field %q is not a hex integer", name)
	}
	return v, nil
}

func loadExport(filename string) (*KeyExport, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	var export KeyExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("failed to parse key file: %w", err)
	}
	return &export, nil
}

func (x *KeyExport) publicKey() (*rsacore.PublicKey, error) {
	n, err := parseHex("n", x.N)
	if err != nil {
		return nil, err
	}
	e, err := parseHex("e", x.E)
	if err != nil {
		return nil, err
	}
	if x.Fingerprint != "" && !sameFingerprint(x.Fingerprint, fingerprint(n, e)) {
		return nil, fmt.Errorf("fingerprint mismatch: key file is corrupted")
	}
	return &rsacore.PublicKey{N: n, E: e}, nil
}

func (x *KeyExport) keyPair() (*rsacore.KeyPair, error) {
	pub, err := x.publicKey()
	if err != nil {
		return nil, err
	}
	d, err := parseHex("d", x.D)
	if err != nil {
		return nil, err
	}
	p, err := parseHex("p", x.P)
	if err != nil {
		return nil, err
	}
	q, err := parseHex("q", x.Q)
	if err != nil {
		return nil, err
	}
	mode, err := rsacore.ParseTotientMode(x.Totient)
	if err != nil {
		return nil, err
	}
	return rsacore.NewKeyPair(pub.N, pub.E, d, p, q, mode)
}

func writeOutput(w io.Writer, data []byte, filename string) error {
	if filename == "" {
		_, err := fmt.Fprintln(w, string(data))
		return err
	}
	// 0600: key files carry private material.
	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return os.Chmod(filename, 0600)
}
