package main

import (
	"bytes"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BackendStack21/rsa-core-go/logging"
)

// runCLI runs the app in-process and returns what it wrote.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err = newApp(&out, &errOut).Run(append([]string{appName}, args...))
	return out.String(), errOut.String(), err
}

func readExport(t *testing.T, path string) KeyExport {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var export KeyExport
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("invalid key file: %v", err)
	}
	return export
}

func keygenFile(t *testing.T, dir string, args ...string) string {
	t.Helper()
	path := filepath.Join(dir, "key.json")
	args = append([]string{"keygen", "--bits", "512", "--output", path}, args...)
	if out, _, err := runCLI(t, args...); err != nil {
		t.Fatalf("keygen failed: %v, out: %s", err, out)
	}
	return path
}

func TestVersion(t *testing.T) {
	stdout, _, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(stdout, "rsa-cli version "+version) {
		t.Errorf("unexpected version output: %s", stdout)
	}
}

func TestKeygen(t *testing.T) {
	dir := t.TempDir()
	pubPath := filepath.Join(dir, "pub.json")
	path := keygenFile(t, dir, "--public-output", pubPath, "--timing")

	export := readExport(t, path)
	if export.Bits != 512 {
		t.Errorf("bits = %d, want 512", export.Bits)
	}
	if export.Totient != "carmichael" {
		t.Errorf("totient = %q, want carmichael", export.Totient)
	}
	if export.E != "10001" {
		t.Errorf("e = %q, want 10001", export.E)
	}
	if export.D == "" || export.P == "" || export.Q == "" {
		t.Error("key pair export is missing private fields")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("key file mode = %v, want 0600", info.Mode().Perm())
	}

	pub := readExport(t, pubPath)
	if pub.D != "" || pub.P != "" || pub.Q != "" {
		t.Error("public key export leaks private fields")
	}
	if pub.N != export.N || pub.Fingerprint != export.Fingerprint {
		t.Error("public key export does not match the key pair")
	}
}

func TestKeygen_Stdout(t *testing.T) {
	stdout, _, err := runCLI(t, "keygen", "--bits", "512", "--totient", "euler")
	if err != nil {
		t.Fatalf("keygen failed: %v", err)
	}
	var export KeyExport
	if err := json.Unmarshal([]byte(stdout), &export); err != nil {
		t.Fatalf("stdout is not a key export: %v", err)
	}
	if export.Totient != "euler" {
		t.Errorf("totient = %q, want euler", export.Totient)
	}
}

func TestKeygen_Seeded(t *testing.T) {
	seed := "a3f19c0e5b7d2846e1c97f30b5d8426a9e13c7f05b2d8e4617a9c3f05e8b1d72"
	a, _, err := runCLI(t, "keygen", "--bits", "512", "--seed", seed)
	if err != nil {
		t.Fatalf("keygen failed: %v", err)
	}
	b, _, err := runCLI(t, "keygen", "--bits", "512", "--seed", seed)
	if err != nil {
		t.Fatalf("keygen failed: %v", err)
	}

	var ka, kb KeyExport
	if err := json.Unmarshal([]byte(a), &ka); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(b), &kb); err != nil {
		t.Fatal(err)
	}
	if ka.N != kb.N || ka.D != kb.D {
		t.Error("seeded keygen is not deterministic")
	}
}

func TestKeygen_Errors(t *testing.T) {
	cases := [][]string{
		{"keygen", "--bits", "256"},
		{"keygen", "--level", "1024"},
		{"keygen", "--bits", "512", "--totient", "fermat"},
		{"keygen", "--bits", "512", "--exponent", "four"},
		{"keygen", "--bits", "512", "--exponent", "4"},
		{"keygen", "--bits", "512", "--seed", "zz"},
		{"keygen", "--bits", "512", "--seed", "00"},
	}
	for _, args := range cases {
		if _, _, err := runCLI(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestKeygen_VerboseRedacts(t *testing.T) {
	_, stderr, err := runCLI(t, "keygen", "--bits", "512", "--verbose")
	if err != nil {
		t.Fatalf("keygen failed: %v", err)
	}
	if !strings.Contains(stderr, "key pair generated") {
		t.Errorf("verbose output missing debug record: %s", stderr)
	}
	if strings.Contains(stderr, "d=") {
		t.Errorf("verbose output mentions the private exponent: %s", stderr)
	}
}

func TestKeygen_RandomSeed(t *testing.T) {
	a, stderr, err := runCLI(t, "keygen", "--bits", "512", "--seed", "random")
	if err != nil {
		t.Fatalf("keygen failed: %v", err)
	}
	line := strings.TrimSpace(stderr)
	if !strings.HasPrefix(line, "Seed: ") {
		t.Fatalf("fresh seed not reported: %q", stderr)
	}
	seed := strings.TrimPrefix(line, "Seed: ")
	if len(seed) != 64 {
		t.Errorf("seed has %d hex chars, want 64", len(seed))
	}

	b, _, err := runCLI(t, "keygen", "--bits", "512", "--seed", seed)
	if err != nil {
		t.Fatalf("keygen with reported seed failed: %v", err)
	}
	var ka, kb KeyExport
	if err := json.Unmarshal([]byte(a), &ka); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(b), &kb); err != nil {
		t.Fatal(err)
	}
	if ka.N != kb.N {
		t.Error("reported seed does not regenerate the key pair")
	}
}

func TestKeygen_RetryLogRedacted(t *testing.T) {
	// An even exponent never fits, so every retry is logged before failing.
	_, stderr, err := runCLI(t, "keygen", "--bits", "512", "--exponent", "4", "--retry-exponent", "--verbose")
	if err == nil {
		t.Fatal("expected key generation failure for e=4")
	}
	if !strings.Contains(stderr, "p="+logging.Placeholder()) || !strings.Contains(stderr, "q="+logging.Placeholder()) {
		t.Errorf("retry records are not redacted: %s", stderr)
	}
}

func TestEncryptDecrypt_Message(t *testing.T) {
	dir := t.TempDir()
	keyPath := keygenFile(t, dir)
	ctPath := filepath.Join(dir, "ct.json")

	if _, _, err := runCLI(t, "encrypt", "--key", keyPath, "--message", "Hello RSA", "--output", ctPath); err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	stdout, _, err := runCLI(t, "decrypt", "--key", keyPath, "--ciphertext", ctPath)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if strings.TrimSpace(stdout) != "Hello RSA" {
		t.Errorf("decrypted %q, want %q", stdout, "Hello RSA")
	}
}

func TestEncryptDecrypt_PublicKeyFile(t *testing.T) {
	dir := t.TempDir()
	pubPath := filepath.Join(dir, "pub.json")
	keyPath := keygenFile(t, dir, "--public-output", pubPath)
	ctPath := filepath.Join(dir, "ct.json")

	if _, _, err := runCLI(t, "encrypt", "--key", pubPath, "--integer", "65", "--output", ctPath); err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	stdout, _, err := runCLI(t, "decrypt", "--key", keyPath, "--ciphertext", ctPath, "--integer")
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if strings.TrimSpace(stdout) != "65" {
		t.Errorf("decrypted %q, want 65", stdout)
	}

	// A public key file cannot decrypt.
	if _, _, err := runCLI(t, "decrypt", "--key", pubPath, "--ciphertext", ctPath); err == nil {
		t.Error("expected error decrypting with a public key file")
	}
}

func TestEncrypt_Errors(t *testing.T) {
	dir := t.TempDir()
	keyPath := keygenFile(t, dir)
	n, _ := new(big.Int).SetString(readExport(t, keyPath).N, 16)

	cases := [][]string{
		{"encrypt", "--key", keyPath},
		{"encrypt", "--key", keyPath, "--integer", "-1"},
		{"encrypt", "--key", keyPath, "--integer", n.String()},
		{"encrypt", "--key", keyPath, "--integer", "abc"},
		{"encrypt", "--key", filepath.Join(dir, "missing.json"), "--message", "x"},
		{"encrypt", "--message", "x"},
	}
	for _, args := range cases {
		if _, _, err := runCLI(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	dir := t.TempDir()
	keyPath := keygenFile(t, dir)
	otherDir := t.TempDir()
	otherPath := keygenFile(t, otherDir)
	ctPath := filepath.Join(dir, "ct.json")

	if _, _, err := runCLI(t, "encrypt", "--key", keyPath, "--message", "secret", "--output", ctPath); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runCLI(t, "decrypt", "--key", otherPath, "--ciphertext", ctPath); err == nil {
		t.Error("expected fingerprint mismatch error")
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	keyPath := keygenFile(t, dir)

	stdout, _, err := runCLI(t, "validate", "--key", keyPath)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.HasPrefix(stdout, "valid:") {
		t.Errorf("unexpected validate output: %s", stdout)
	}

	// Corrupt d and keep the fingerprint intact.
	export := readExport(t, keyPath)
	d, _ := new(big.Int).SetString(export.D, 16)
	export.D = d.Add(d, big.NewInt(2)).Text(16)
	data, _ := json.Marshal(export)
	if err := os.WriteFile(keyPath, data, 0600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runCLI(t, "validate", "--key", keyPath); err == nil {
		t.Error("expected validation failure for corrupted d")
	}

	// Corrupt n so the fingerprint no longer matches.
	export.N = "0f"
	data, _ = json.Marshal(export)
	if err := os.WriteFile(keyPath, data, 0600); err != nil {
		t.Fatal(err)
	}
	_, _, err = runCLI(t, "validate", "--key", keyPath)
	if err == nil || !strings.Contains(err.Error(), "fingerprint") {
		t.Errorf("expected fingerprint error, got %v", err)
	}
}

func TestBenchmark(t *testing.T) {
	stdout, _, err := runCLI(t, "benchmark", "--bits", "512", "--iterations", "4", "--workers", "2")
	if err != nil {
		t.Fatalf("benchmark failed: %v", err)
	}
	for _, want := range []string{"KeyGen:", "Encrypt:", "Decrypt:", "Benchmark complete!"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("benchmark output missing %q", want)
		}
	}
}
