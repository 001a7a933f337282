package license

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DefaultPaddingLength is the number of random characters placed before the signature.
const DefaultPaddingLength = 129

// Alphabet names the character set used for padding.
type Alphabet string

const (
	// AlphabetAlnum draws from A-Z, a-z and 0-9.
	AlphabetAlnum Alphabet = "alnum"
	// AlphabetHex draws from 0-9 and a-f.
	AlphabetHex Alphabet = "hex"
)

const (
	alnumChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	hexChars   = "0123456789abcdef"
)

// Chars returns the characters of the alphabet, or "" if it is unknown.
func (a Alphabet) Chars() string {
	switch a {
	case AlphabetAlnum:
		return alnumChars
	case AlphabetHex:
		return hexChars
	default:
		return ""
	}
}

// IsValid checks if the alphabet is a recognized value.
func (a Alphabet) IsValid() bool {
	return a.Chars() != ""
}

// ParseAlphabet parses an alphabet name. An empty name selects AlphabetAlnum.
func ParseAlphabet(name string) (Alphabet, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return AlphabetAlnum, nil
	}
	a := Alphabet(name)
	if !a.IsValid() {
		return "", fmt.Errorf("unknown padding alphabet %q", name)
	}
	return a, nil
}

// Padder produces fixed-length random strings. The padding hides which signer
// produced a license from casual inspection; it adds no cryptographic strength.
type Padder struct {
	alphabet Alphabet
	length   int
	source   io.Reader
}

// NewPadder returns a Padder reading from crypto/rand.
func NewPadder(alphabet Alphabet, length int) (*Padder, error) {
	return newPadder(alphabet, length, rand.Reader)
}

func newPadder(alphabet Alphabet, length int, source io.Reader) (*Padder, error) {
	if !alphabet.IsValid() {
		return nil, fmt.Errorf("unknown padding alphabet %q", alphabet)
	}
	if length < 0 {
		return nil, fmt.Errorf("padding length must not be negative, got %d", length)
	}
	if source == nil {
		return nil, errors.New("nil random source")
	}
	return &Padder{alphabet: alphabet, length: length, source: source}, nil
}

// Alphabet returns the configured alphabet.
func (p *Padder) Alphabet() Alphabet { return p.alphabet }

// Length returns the configured padding length.
func (p *Padder) Length() int { return p.length }

// Generate returns Length characters drawn uniformly from the alphabet.
// Bytes that would bias the distribution are rejected and redrawn.
func (p *Padder) Generate() (string, error) {
	chars := p.alphabet.Chars()
	n := len(chars)
	limit := 256 - 256%n

	out := make([]byte, 0, p.length)
	buf := make([]byte, p.length+p.length/4+8)
	for len(out) < p.length {
		if _, err := io.ReadFull(p.source, buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, chars[int(b)%n])
			if len(out) == p.length {
				break
			}
		}
	}
	return string(out), nil
}

// ComposeSignature prefixes digest with padding. There is no separator.
func ComposeSignature(padding, digest string) string {
	return padding + digest
}

// SplitSignature separates a composed signature into padding and digest by
// taking the trailing digestLen characters as the digest.
func SplitSignature(signature string, digestLen int) (padding, digest string, err error) {
	if digestLen <= 0 {
		return "", "", fmt.Errorf("digest length must be positive, got %d", digestLen)
	}
	if len(signature) < digestLen {
		return "", "", fmt.Errorf("signature has %d characters, shorter than digest length %d", len(signature), digestLen)
	}
	cut := len(signature) - digestLen
	return signature[:cut], signature[cut:], nil
}
