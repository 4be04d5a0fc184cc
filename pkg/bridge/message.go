package bridge

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"
)

// DomainSeparator scopes every signature to this bridge and message
// version. Changing it invalidates every previously issued attestation —
// it is the first line of defense against cross-asset and cross-protocol
// replay.
var DomainSeparator = []byte("X1BRIDGE_BURN_ATTESTATION_V3")

// messageSize is DomainSeparator + 1 (asset) + 8 (set_version) + 8
// (burn_nonce) + 8 (amount) + 32 (user).
func messageSize() int {
	return len(DomainSeparator) + 1 + 8 + 8 + 8 + 32
}

// CanonicalMessage builds the exact byte sequence a validator signs and
// a light client reconstructs to verify a signature:
//
//	DOMAIN_SEPARATOR || asset_id(1B) || set_version(8B LE) ||
//	burn_nonce(8B LE) || amount(8B LE) || user(32B)
//
// The signature covers these raw bytes directly — there is no
// intermediate hash. Changing any field, or the order of fields,
// invalidates every signature over the message.
func CanonicalMessage(asset Asset, setVersion, burnNonce, amount uint64, user [32]byte) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, messageSize()))
	buf.Write(DomainSeparator)
	buf.WriteByte(byte(asset))

	var le [8]byte
	binary.LittleEndian.PutUint64(le[:], setVersion)
	buf.Write(le[:])
	binary.LittleEndian.PutUint64(le[:], burnNonce)
	buf.Write(le[:])
	binary.LittleEndian.PutUint64(le[:], amount)
	buf.Write(le[:])

	buf.Write(user[:])
	return buf.Bytes()
}

// Sign signs a canonical message directly with the given Ed25519
// private key — no pre-hashing, per CanonicalMessage's contract.
func Sign(priv ed25519.PrivateKey, message []byte) []byte {
	return ed25519.Sign(priv, message)
}

// Verify checks a raw Ed25519 signature over a canonical message.
func Verify(pub ed25519.PublicKey, message, signature []byte) bool {
	if len(pub) != ed25519.PublicKeySize || len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pub, message, signature)
}
