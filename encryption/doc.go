// Package encryption seals short secrets, such as the saved transcription
// API key, before they reach the key-value store.
//
// The passphrase is hashed with SHA-256 into a 256-bit key for an AEAD
// cipher. Sealed values are base64 and carry their random nonce:
//
//	enc, err := encryption.New(encryption.Config{Key: passphrase})
//	sealed, err := enc.Seal("sk-...")
//	plain, err := enc.Open(sealed)
package encryption
