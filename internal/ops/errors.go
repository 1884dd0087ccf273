package ops

import "errors"

// These are the user-visible error kinds from spec.md §7. ClusterWriteFailed
// never surfaces here: it is logged and swallowed inside internal/fat32.
var (
	ErrImageMissing          = errors.New("image does not exist")
	ErrImageParseFailed      = errors.New("image could not be parsed as FAT32")
	ErrInsufficientFreeSpace = errors.New("not enough free space for this slug")
	ErrInvalidHeader         = errors.New("invalid slug header (wrong passphrase or no slug present)")
	ErrIntegrityFailed       = errors.New("slug payload failed its integrity check")
	ErrPassphraseRequired    = errors.New("a passphrase is required for this operation")
)
