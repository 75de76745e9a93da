package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// SignaturePrefix is the scheme prefix of the X-Hub-Signature-256 header
const SignaturePrefix = "sha256="

func ComputeHMAC256(toSign []byte, secretKey string) string {
	h := hmac.New(sha256.New, []byte(secretKey))
	h.Write(toSign)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// VerifyWebhookSignature checks a "sha256=<hex>" signature header against the
// HMAC-SHA256 of the raw request body. The comparison is constant-time.
func VerifyWebhookSignature(body []byte, header string, appSecret string) bool {
	if !strings.HasPrefix(header, SignaturePrefix) {
		return false
	}
	provided, err := hex.DecodeString(strings.TrimPrefix(header, SignaturePrefix))
	if err != nil {
		return false
	}

	h := hmac.New(sha256.New, []byte(appSecret))
	h.Write(body)
	return hmac.Equal(h.Sum(nil), provided)
}

func Sha256Hash(str string) []byte {
	hash := sha256.Sum256([]byte(str))
	return hash[:]
}

// EncryptString seals str with AES-GCM keyed by sha256(passphrase) and returns
// nonce||ciphertext hex encoded
func EncryptString(str string, passphrase string) (string, error) {
	block, err := aes.NewCipher(Sha256Hash(passphrase))
	if err != nil {
		return "", fmt.Errorf("EncryptString new cipher error: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("EncryptString error: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("EncryptString reader error: %w", err)
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(str), nil)

	return hex.EncodeToString(ciphertext), nil
}

func Decrypt(data []byte, passphrase string) ([]byte, error) {
	block, err := aes.NewCipher(Sha256Hash(passphrase))
	if err != nil {
		return nil, fmt.Errorf("Decrypt new cipher error: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("Decrypt new gcm error: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, fmt.Errorf("Decrypt ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("Decrypt open gcm error: %w", err)
	}

	return plaintext, nil
}

func DecryptFromHexString(str string, passphrase string) (string, error) {
	if str == "" {
		return "", fmt.Errorf("DecryptFromHexString empty string")
	}

	data, err := hex.DecodeString(str)
	if err != nil {
		return "", fmt.Errorf("DecryptFromHexString decode error: %w", err)
	}

	decodedBytes, err := Decrypt(data, passphrase)
	if err != nil {
		return "", fmt.Errorf("DecryptFromHexString decrypt error: %w", err)
	}

	return string(decodedBytes), nil
}
