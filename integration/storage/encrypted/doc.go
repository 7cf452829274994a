// Package encrypted provides a file-backed session store sealed with
// XChaCha20-Poly1305, for desktop shells where tokens must not rest on disk
// in plaintext.
//
// The whole store is one JSON map encrypted as a unit with a fresh nonce on
// every write, and replaced atomically via rename. The caller supplies the
// 32-byte key, typically unwrapped from the platform keychain.
//
//	store, err := encrypted.NewStore(filepath.Join(dataDir, "session.bin"), key)
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager, err := session.New(authURL, store)
package encrypted
