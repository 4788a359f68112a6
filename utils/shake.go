package utils

import (
	"io"

	"golang.org/x/crypto/sha3"
)

// ShakeReader is a deterministic byte stream derived from a seed with the
// SHAKE256 extendable output function. It is not safe for concurrent use.
type ShakeReader struct {
	h sha3.ShakeHash
}

var _ io.Reader = (*ShakeReader)(nil)

// NewShakeReader returns a reader whose output is fully determined by
// (domain, seed). Panics if domain is longer than 255 bytes.
func NewShakeReader(domain string, seed []byte) *ShakeReader {
	h := sha3.NewShake256()
	writeDomain(h, domain)
	h.Write(seed)
	return &ShakeReader{h: h}
}

// Read fills p with the next bytes of the stream. It never fails.
func (r *ShakeReader) Read(p []byte) (int, error) {
	return r.h.Read(p)
}

// Shake256 computes the SHAKE256 extendable output function (XOF).
func Shake256(input []byte, outputLen int) []byte {
	h := sha3.NewShake256()
	h.Write(input)
	output := make([]byte, outputLen)
	_, _ = h.Read(output)
	return output
}

// HashWithDomain computes a domain-separated SHA3-256 hash.
// It prefixes the data with the length of the domain string and the domain string itself.
// Panics if domain is longer than 255 bytes.
func HashWithDomain(domain string, data []byte) []byte {
	h := sha3.New256()
	writeDomain(h, domain)
	h.Write(data)
	return h.Sum(nil)
}

func writeDomain(w io.Writer, domain string) {
	domainBytes := []byte(domain)
	if len(domainBytes) > 255 {
		panic("domain string must be at most 255 bytes")
	}
	w.Write([]byte{byte(len(domainBytes))})
	w.Write(domainBytes)
}
