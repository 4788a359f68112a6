// Package cipher implements textbook RSA encryption and decryption on
// integers: c = m^e mod n and m = c^d mod n.
//
// No padding scheme is applied. Textbook RSA is deterministic and
// malleable; wrap it in OAEP or a KEM before using it on real data.
package cipher

import (
	"math/big"

	rsacore "github.com/BackendStack21/rsa-core-go"
	"github.com/BackendStack21/rsa-core-go/ntheory"
)

var two = big.NewInt(2)

// Encrypt returns m^e mod n. m must lie in [0, n).
func Encrypt(pub *rsacore.PublicKey, m *big.Int) (*big.Int, error) {
	if pub == nil {
		return nil, rsacore.NewError("Encrypt", rsacore.ErrInvalidParameter, "nil public key")
	}
	if err := checkKey("Encrypt", pub.N, pub.E); err != nil {
		return nil, err
	}
	if err := checkRange("Encrypt", m, pub.N); err != nil {
		return nil, err
	}
	return ntheory.ModPow(m, pub.E, pub.N)
}

// Decrypt returns c^d mod n. c must lie in [0, n). The exponentiation runs
// in time independent of the bits of d.
func Decrypt(priv *rsacore.PrivateKey, c *big.Int) (*big.Int, error) {
	if priv == nil {
		return nil, rsacore.NewError("Decrypt", rsacore.ErrInvalidParameter, "nil private key")
	}
	if err := checkKey("Decrypt", priv.N, priv.D); err != nil {
		return nil, err
	}
	if err := checkRange("Decrypt", c, priv.N); err != nil {
		return nil, err
	}
	return ntheory.ModPowSecret(c, priv.D, priv.N)
}

// EncryptBytes encrypts msg read as a big-endian integer. The ciphertext is
// left-padded to the byte length of the modulus.
func EncryptBytes(pub *rsacore.PublicKey, msg []byte) ([]byte, error) {
	if pub == nil {
		return nil, rsacore.NewError("EncryptBytes", rsacore.ErrInvalidParameter, "nil public key")
	}
	c, err := Encrypt(pub, new(big.Int).SetBytes(msg))
	if err != nil {
		return nil, err
	}
	return c.FillBytes(make([]byte, pub.Size())), nil
}

// DecryptBytes decrypts a big-endian ciphertext and returns the plaintext
// integer in its minimal big-endian form. Leading zero bytes of the original
// message are not recovered.
func DecryptBytes(priv *rsacore.PrivateKey, ciphertext []byte) ([]byte, error) {
	if priv == nil {
		return nil, rsacore.NewError("DecryptBytes", rsacore.ErrInvalidParameter, "nil private key")
	}
	if err := checkKey("DecryptBytes", priv.N, priv.D); err != nil {
		return nil, err
	}
	if len(ciphertext) > priv.Size() {
		return nil, rsacore.NewError("DecryptBytes", rsacore.ErrMessageTooLarge,
			"ciphertext is %d bytes, modulus is %d", len(ciphertext), priv.Size())
	}
	m, err := Decrypt(priv, new(big.Int).SetBytes(ciphertext))
	if err != nil {
		return nil, err
	}
	return m.Bytes(), nil
}

func checkKey(op string, n, exp *big.Int) error {
	if n == nil || exp == nil {
		return rsacore.NewError(op, rsacore.ErrInvalidParameter, "incomplete key")
	}
	if n.Cmp(two) < 0 {
		return rsacore.NewError(op, rsacore.ErrInvalidParameter, "modulus must be at least 2")
	}
	if exp.Sign() <= 0 {
		return rsacore.NewError(op, rsacore.ErrInvalidParameter, "exponent must be positive")
	}
	return nil
}

func checkRange(op string, x, n *big.Int) error {
	if x == nil {
		return rsacore.NewError(op, rsacore.ErrInvalidParameter, "nil input")
	}
	if x.Sign() < 0 || x.Cmp(n) >= 0 {
		return rsacore.NewError(op, rsacore.ErrMessageTooLarge, "input must lie in [0, n)")
	}
	return nil
}
