package circleclient

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
)

// EntitySecretBytes is the size of an entity secret; it is shown to
// operators as 64 hex characters.
const EntitySecretBytes = 32

func GenerateEntitySecret() (string, error) {
	buf := make([]byte, EntitySecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// EncryptEntitySecret produces the base64 RSA-OAEP(SHA-256) ciphertext Circle
// expects, using the PEM public key served by the entity config endpoint.
func EncryptEntitySecret(publicKeyPEM string, secret []byte) (string, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return "", errors.New("circle public key is not PEM encoded")
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		rsaKey, rsaErr := x509.ParsePKCS1PublicKey(block.Bytes)
		if rsaErr != nil {
			return "", fmt.Errorf("parse circle public key: %w", err)
		}
		parsed = rsaKey
	}

	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return "", fmt.Errorf("circle public key is %T, want RSA", parsed)
	}

	out, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, secret, nil)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(out), nil
}
