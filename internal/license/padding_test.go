package license

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPadder_LengthAndAlphabet(t *testing.T) {
	tests := []struct {
		alphabet Alphabet
		pattern  string
	}{
		{AlphabetAlnum, "^[A-Za-z0-9]{129}$"},
		{AlphabetHex, "^[0-9a-f]{129}$"},
	}

	for _, tt := range tests {
		t.Run(string(tt.alphabet), func(t *testing.T) {
			p, err := NewPadder(tt.alphabet, DefaultPaddingLength)
			require.NoError(t, err)

			for i := 0; i < 50; i++ {
				pad, err := p.Generate()
				require.NoError(t, err)
				assert.Len(t, pad, 129)
				assert.Regexp(t, tt.pattern, pad)
			}
		})
	}
}

func TestPadder_RejectsBiasedBytes(t *testing.T) {
	// 248..255 would bias the 62-character alphabet and must be skipped.
	src := bytes.NewReader(append(bytes.Repeat([]byte{255, 250, 248}, 4), make([]byte, 64)...))
	p, err := newPadder(AlphabetAlnum, 4, src)
	require.NoError(t, err)

	pad, err := p.Generate()
	require.NoError(t, err)
	assert.Equal(t, "AAAA", pad)
}

func TestPadder_Distribution(t *testing.T) {
	p, err := NewPadder(AlphabetHex, 16000)
	require.NoError(t, err)
	pad, err := p.Generate()
	require.NoError(t, err)

	for _, c := range hexChars {
		n := strings.Count(pad, string(c))
		assert.InDelta(t, 1000, n, 250, "character %q appeared %d times", c, n)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestPadder_SourceFailure(t *testing.T) {
	p, err := newPadder(AlphabetHex, 10, failingReader{})
	require.NoError(t, err)
	_, err = p.Generate()
	assert.ErrorContains(t, err, "entropy exhausted")
}

func TestNewPadder_Invalid(t *testing.T) {
	_, err := NewPadder(Alphabet("base32"), 10)
	assert.Error(t, err)
	_, err = NewPadder(AlphabetHex, -1)
	assert.Error(t, err)
	_, err = newPadder(AlphabetHex, 1, nil)
	assert.Error(t, err)

	p, err := NewPadder(AlphabetHex, 0)
	require.NoError(t, err)
	pad, err := p.Generate()
	require.NoError(t, err)
	assert.Empty(t, pad)
}

func TestParseAlphabet(t *testing.T) {
	a, err := ParseAlphabet("")
	require.NoError(t, err)
	assert.Equal(t, AlphabetAlnum, a)

	a, err = ParseAlphabet("HEX")
	require.NoError(t, err)
	assert.Equal(t, AlphabetHex, a)

	_, err = ParseAlphabet("emoji")
	assert.Error(t, err)
}

func TestSplitSignature(t *testing.T) {
	pad := strings.Repeat("x", 129)
	digest := strings.Repeat("a", 64)

	gotPad, gotDigest, err := SplitSignature(ComposeSignature(pad, digest), 64)
	require.NoError(t, err)
	assert.Equal(t, pad, gotPad)
	assert.Equal(t, digest, gotDigest)

	_, _, err = SplitSignature("short", 64)
	assert.Error(t, err)
	_, _, err = SplitSignature(digest, 0)
	assert.Error(t, err)
}
