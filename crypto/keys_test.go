package crypto

import (
	"bytes"
	"strings"
	"testing"
)

func TestAddressBech32RoundTrip(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	raw := key.Address()
	addr, err := NewAddress(raw[:])
	if err != nil {
		t.Fatalf("new address: %v", err)
	}
	encoded := addr.String()
	if !strings.HasPrefix(encoded, AddressPrefix+"1") {
		t.Fatalf("unexpected prefix: %s", encoded)
	}
	decoded, err := DecodeAddress(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Bytes() != raw {
		t.Fatalf("round trip mismatch")
	}
}

func TestDecodeAddressRejectsForeignPrefix(t *testing.T) {
	if _, err := DecodeAddress("nhb1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq5ltp0"); err == nil {
		t.Fatalf("foreign prefix must be rejected")
	}
	if _, err := DecodeAddress("garbage"); err == nil {
		t.Fatalf("garbage must be rejected")
	}
}

func TestSignRecoverRoundTrip(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	payload := []byte("nftswap_depositSOL|dragons|1000")
	sig, err := key.Sign(payload)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if len(sig) != 65 {
		t.Fatalf("signature length: %d", len(sig))
	}
	signer, err := RecoverSigner(payload, sig)
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	if signer != key.Address() {
		t.Fatalf("recovered wrong signer")
	}

	// A different payload recovers a different address.
	other, err := RecoverSigner([]byte("nftswap_depositSOL|dragons|9999"), sig)
	if err == nil && other == key.Address() {
		t.Fatalf("tampered payload must not recover the signer")
	}
}

func TestPrivateKeyBytesRoundTrip(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	restored, err := PrivateKeyFromBytes(key.Bytes())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !bytes.Equal(restored.Bytes(), key.Bytes()) {
		t.Fatalf("key bytes mismatch")
	}
	if restored.Address() != key.Address() {
		t.Fatalf("address mismatch after restore")
	}
}
