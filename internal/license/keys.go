package license

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// LoadRSASigner reads an unencrypted PEM RSA private key from path.
// Any failure is returned as a *KeyLoadError.
func LoadRSASigner(path string) (*RSASigner, error) {
	cleaned := filepath.Clean(path)

	data, err := os.ReadFile(cleaned)
	if err != nil {
		return nil, &KeyLoadError{Path: cleaned, Err: err}
	}

	key, err := ParseRSAPrivateKeyPEM(data)
	if err != nil {
		return nil, &KeyLoadError{Path: cleaned, Err: err}
	}

	signer, err := NewRSASigner(key)
	if err != nil {
		var kerr *KeyLoadError
		if errors.As(err, &kerr) {
			kerr.Path = cleaned
		}
		return nil, err
	}
	return signer, nil
}

// ParseRSAPrivateKeyPEM decodes the first PEM block of data as a PKCS#1 or
// PKCS#8 RSA private key. Encrypted blocks are rejected.
func ParseRSAPrivateKeyPEM(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("no PEM data found")
	}
	//nolint:staticcheck // legacy Proc-Type encryption must still be detected
	if block.Type == "ENCRYPTED PRIVATE KEY" || x509.IsEncryptedPEMBlock(block) {
		return nil, errors.New("encrypted private keys are not supported")
	}

	switch block.Type {
	case "RSA PRIVATE KEY":
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse PKCS#1 private key: %w", err)
		}
		return key, nil
	case "PRIVATE KEY":
		parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse PKCS#8 private key: %w", err)
		}
		key, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("PKCS#8 key is %T, not RSA", parsed)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("unexpected PEM block type %q", block.Type)
	}
}
