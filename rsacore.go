// Package rsacore implements the core arithmetic of textbook RSA.
// This package holds the shared key and parameter types; the algorithms live
// in sub-packages: prime generation (prime), the number-theoretic kernel
// (ntheory), key pair construction (keygen) and the block cipher (cipher).
package rsacore

// Version of the rsa-core Go implementation.
const Version = "1.0.0"

// API summary:
//
// Key Generation:
//   - keygen.GenerateKeyPair(nlen, e) - Generate a key pair with an nlen-bit modulus
//   - keygen.GenerateKeyPairForLevel(level) - Generate a key pair for a named parameter set
//   - keygen.GenerateKeyPairFromSeed(params, seed, e) - Deterministic generation from a seed
//   - keygen.FromPrimes(p, q, e, mode) - Assemble a key pair from known primes
//   - keygen.Validate(kp) - Check every key pair invariant
//
// Cipher:
//   - cipher.Encrypt(pub, m) - c = m^e mod n
//   - cipher.Decrypt(priv, c) - m = c^d mod n
//
// Number theory:
//   - ntheory.GCD, ntheory.LCM, ntheory.ModInverse, ntheory.ModPow
//   - ntheory.ReducedTotient, ntheory.EulerTotient
//
// Parameters:
//   - core.GetParams(level) - Get parameters for a named level
//   - RSA2048, RSA3072, RSA4096
//
// WARNING: textbook RSA has no padding. It is deterministic and malleable and
// must not be used to protect real data.
