package encrypted

import "errors"

var (
	// ErrMissingPath is returned when constructing a store without a file path.
	ErrMissingPath = errors.New("store file path is required")
	// ErrInvalidKeySize is returned when the encryption key has the wrong length.
	ErrInvalidKeySize = errors.New("invalid encryption key size")
	// ErrCorruptStore is returned when the backing file cannot be decrypted or decoded.
	ErrCorruptStore = errors.New("store file is corrupt or the key is wrong")
)
