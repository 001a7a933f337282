package license

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testKeyOnce sync.Once
	testKey     *rsa.PrivateKey
	testKeyErr  error
)

// sharedTestKey returns one 2048-bit key for the whole package run.
func sharedTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	testKeyOnce.Do(func() {
		testKey, testKeyErr = rsa.GenerateKey(rand.Reader, 2048)
	})
	require.NoError(t, testKeyErr)
	return testKey
}

func writePEM(t *testing.T, block *pem.Block) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "private_key.pem")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0600))
	return path
}

func writePKCS1Key(t *testing.T, key *rsa.PrivateKey) string {
	t.Helper()
	return writePEM(t, &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
}

func writePKCS8Key(t *testing.T, key any) string {
	t.Helper()
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	return writePEM(t, &pem.Block{Type: "PRIVATE KEY", Bytes: der})
}

func TestHashSigner(t *testing.T) {
	s := NewHashSigner()
	assert.Equal(t, AlgorithmSHA256, s.Algorithm())
	assert.Equal(t, 64, s.DigestLen())

	payload := []byte(`{"customerId":"TARENJ","startDate":"2025-07-30","endDate":"2025-09-15","modules":["auth","admin"]}`)
	digest, err := s.Sign(payload)
	require.NoError(t, err)
	assert.Equal(t, "17e73ec0c2edf76f57c9b5b0ed9ea3595d1a8ba98b608ce0047e66cc4c462856", digest)

	_, err = s.Sign(nil)
	assert.ErrorIs(t, err, ErrSigner)
}

func TestRSASigner_SignIsDeterministicAndVerifiable(t *testing.T) {
	key := sharedTestKey(t)
	s, err := NewRSASigner(key)
	require.NoError(t, err)

	assert.Equal(t, AlgorithmRSASHA256, s.Algorithm())
	assert.Equal(t, key.Size()*2, s.DigestLen())
	assert.Equal(t, 512, s.DigestLen())
	assert.Equal(t, 2048, s.KeyBits())

	payload := []byte(`{"customerId":"TARENJ","startDate":"2025-07-30","endDate":"2025-09-15","modules":["auth","admin"]}`)
	first, err := s.Sign(payload)
	require.NoError(t, err)
	second, err := s.Sign(payload)
	require.NoError(t, err)

	assert.Len(t, first, 512)
	assert.Equal(t, first, second)
	assert.Regexp(t, "^[0-9a-f]+$", first)

	sig, err := hex.DecodeString(first)
	require.NoError(t, err)
	digest := sha256.Sum256(payload)
	assert.NoError(t, rsa.VerifyPKCS1v15(s.PublicKey(), crypto.SHA256, digest[:], sig))
}

func TestLoadRSASigner(t *testing.T) {
	key := sharedTestKey(t)

	t.Run("pkcs1", func(t *testing.T) {
		s, err := LoadRSASigner(writePKCS1Key(t, key))
		require.NoError(t, err)
		assert.Equal(t, 2048/4, s.DigestLen())
	})

	t.Run("pkcs8", func(t *testing.T) {
		s, err := LoadRSASigner(writePKCS8Key(t, key))
		require.NoError(t, err)
		assert.Equal(t, key.N, s.PublicKey().N)
	})

	t.Run("3072-bit key has longer digest", func(t *testing.T) {
		if testing.Short() {
			t.Skip("slow key generation")
		}
		big, err := rsa.GenerateKey(rand.Reader, 3072)
		require.NoError(t, err)
		s, err := LoadRSASigner(writePKCS1Key(t, big))
		require.NoError(t, err)
		assert.Equal(t, 3072/4, s.DigestLen())
	})
}

func TestLoadRSASigner_Failures(t *testing.T) {
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.pem") },
		},
		{
			name: "not pem",
			path: func(t *testing.T) string {
				p := filepath.Join(t.TempDir(), "garbage.pem")
				require.NoError(t, os.WriteFile(p, []byte("not a key"), 0600))
				return p
			},
		},
		{
			name: "corrupt pkcs1 body",
			path: func(t *testing.T) string {
				return writePEM(t, &pem.Block{Type: "RSA PRIVATE KEY", Bytes: []byte{0x30, 0x01, 0x00}})
			},
		},
		{
			name: "encrypted pkcs8",
			path: func(t *testing.T) string {
				return writePEM(t, &pem.Block{Type: "ENCRYPTED PRIVATE KEY", Bytes: []byte{0x30}})
			},
		},
		{
			name: "legacy encrypted header",
			path: func(t *testing.T) string {
				return writePEM(t, &pem.Block{
					Type:    "RSA PRIVATE KEY",
					Headers: map[string]string{"Proc-Type": "4,ENCRYPTED", "DEK-Info": "AES-256-CBC,00112233445566778899AABBCCDDEEFF"},
					Bytes:   []byte{0x30},
				})
			},
		},
		{
			name: "not an rsa key",
			path: func(t *testing.T) string { return writePKCS8Key(t, ecKey) },
		},
		{
			name: "public key block",
			path: func(t *testing.T) string {
				der, err := x509.MarshalPKIXPublicKey(&sharedTestKey(t).PublicKey)
				require.NoError(t, err)
				return writePEM(t, &pem.Block{Type: "PUBLIC KEY", Bytes: der})
			},
		},
		{
			name: "directory",
			path: func(t *testing.T) string { return t.TempDir() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path(t)
			s, err := LoadRSASigner(path)
			require.Error(t, err)
			assert.Nil(t, s)
			assert.ErrorIs(t, err, ErrKeyLoad)

			var kerr *KeyLoadError
			require.True(t, errors.As(err, &kerr))
			assert.Equal(t, filepath.Clean(path), kerr.Path)
		})
	}
}

func TestNewRSASigner_NilKey(t *testing.T) {
	_, err := NewRSASigner(nil)
	assert.ErrorIs(t, err, ErrKeyLoad)
}

func TestNewSigner_SelectsVariant(t *testing.T) {
	s, err := NewSigner("")
	require.NoError(t, err)
	assert.Equal(t, AlgorithmSHA256, s.Algorithm())

	s, err = NewSigner(writePKCS1Key(t, sharedTestKey(t)))
	require.NoError(t, err)
	assert.Equal(t, AlgorithmRSASHA256, s.Algorithm())

	_, err = NewSigner(filepath.Join(t.TempDir(), "nope.pem"))
	assert.ErrorIs(t, err, ErrKeyLoad)
}
