package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeHMAC256(t *testing.T) {
	sig := ComputeHMAC256([]byte("payload"), "secret")

	h := hmac.New(sha256.New, []byte("secret"))
	h.Write([]byte("payload"))
	assert.Equal(t, hex.EncodeToString(h.Sum(nil)), sig)
	assert.Len(t, sig, 64)

	assert.NotEqual(t, sig, ComputeHMAC256([]byte("payload"), "other"))
}

func TestVerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"object":"page","entry":[]}`)
	secret := "app-secret"
	valid := SignaturePrefix + ComputeHMAC256(body, secret)

	tests := []struct {
		name   string
		header string
		body   []byte
		want   bool
	}{
		{"valid signature", valid, body, true},
		{"missing prefix", ComputeHMAC256(body, secret), body, false},
		{"wrong secret", SignaturePrefix + ComputeHMAC256(body, "nope"), body, false},
		{"tampered body", valid, []byte(`{"object":"page"}`), false},
		{"not hex", SignaturePrefix + "zz", body, false},
		{"empty header", "", body, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyWebhookSignature(tt.body, tt.header, secret))
		})
	}
}

func TestEncryptDecryptString(t *testing.T) {
	passphrase := "channel-secret-key"
	token := "EAAB-page-access-token"

	encrypted, err := EncryptString(token, passphrase)
	require.NoError(t, err)
	assert.NotEqual(t, token, encrypted)

	_, err = hex.DecodeString(encrypted)
	assert.NoError(t, err, "ciphertext must be hex encoded")

	decrypted, err := DecryptFromHexString(encrypted, passphrase)
	require.NoError(t, err)
	assert.Equal(t, token, decrypted)

	again, err := EncryptString(token, passphrase)
	require.NoError(t, err)
	assert.NotEqual(t, encrypted, again, "nonce must differ between calls")
}

func TestDecryptFromHexString_Errors(t *testing.T) {
	encrypted, err := EncryptString("token", "right")
	require.NoError(t, err)

	t.Run("empty string", func(t *testing.T) {
		_, err := DecryptFromHexString("", "right")
		assert.Error(t, err)
	})

	t.Run("invalid hex", func(t *testing.T) {
		_, err := DecryptFromHexString("not-hex", "right")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "decode error")
	})

	t.Run("too short", func(t *testing.T) {
		_, err := DecryptFromHexString("abcd", "right")
		assert.Error(t, err)
	})

	t.Run("wrong passphrase", func(t *testing.T) {
		_, err := DecryptFromHexString(encrypted, "wrong")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "decrypt error")
	})
}
