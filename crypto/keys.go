package crypto

import (
	"crypto/ecdsa"
	"crypto/rand"
	"fmt"

	"github.com/btcsuite/btcutil/bech32"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// AddressPrefix is the human-readable bech32 prefix for swap-engine addresses.
const AddressPrefix = "nsw"

// Address represents a 20-byte account address.
type Address struct {
	bytes [20]byte
}

// NewAddress builds an Address from raw bytes.
func NewAddress(b []byte) (Address, error) {
	if len(b) != 20 {
		return Address{}, fmt.Errorf("address must be 20 bytes long, got %d", len(b))
	}
	var addr Address
	copy(addr.bytes[:], b)
	return addr, nil
}

// String renders the address in bech32 form.
func (a Address) String() string {
	conv, err := bech32.ConvertBits(a.bytes[:], 8, 5, true)
	if err != nil {
		panic(err)
	}
	encoded, err := bech32.Encode(AddressPrefix, conv)
	if err != nil {
		panic(err)
	}
	return encoded
}

// Bytes returns the raw 20-byte representation.
func (a Address) Bytes() [20]byte {
	return a.bytes
}

// DecodeAddress parses a bech32 address string.
func DecodeAddress(addrStr string) (Address, error) {
	prefix, decoded, err := bech32.Decode(addrStr)
	if err != nil {
		return Address{}, fmt.Errorf("invalid bech32 string: %w", err)
	}
	if prefix != AddressPrefix {
		return Address{}, fmt.Errorf("unexpected address prefix %q", prefix)
	}
	conv, err := bech32.ConvertBits(decoded, 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("error converting bits: %w", err)
	}
	return NewAddress(conv)
}

// --- Key Management ---

type PrivateKey struct {
	*ecdsa.PrivateKey
}

// GeneratePrivateKey creates a fresh secp256k1 key.
func GeneratePrivateKey() (*PrivateKey, error) {
	key, err := ecdsa.GenerateKey(ethcrypto.S256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key}, nil
}

// PrivateKeyFromBytes restores a key from its raw byte representation.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	key, err := ethcrypto.ToECDSA(b)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key}, nil
}

// Bytes returns the raw private key bytes.
func (k *PrivateKey) Bytes() []byte {
	return ethcrypto.FromECDSA(k.PrivateKey)
}

// Address derives the 20-byte account address for the key.
func (k *PrivateKey) Address() [20]byte {
	addr := ethcrypto.PubkeyToAddress(k.PublicKey)
	var out [20]byte
	copy(out[:], addr[:])
	return out
}

// Sign produces a recoverable signature over the keccak256 digest of payload.
func (k *PrivateKey) Sign(payload []byte) ([]byte, error) {
	digest := ethcrypto.Keccak256(payload)
	return ethcrypto.Sign(digest, k.PrivateKey)
}

// RecoverSigner returns the address that produced sig over payload. The
// signature must be in the 65-byte [R || S || V] recoverable form.
func RecoverSigner(payload, sig []byte) ([20]byte, error) {
	digest := ethcrypto.Keccak256(payload)
	pub, err := ethcrypto.SigToPub(digest, sig)
	if err != nil {
		return [20]byte{}, fmt.Errorf("recover signer: %w", err)
	}
	addr := ethcrypto.PubkeyToAddress(*pub)
	var out [20]byte
	copy(out[:], addr[:])
	return out, nil
}
