package slug

import "errors"

var (
	// ErrSourceMissing is returned by MakeSlug when the payload source file
	// does not exist.
	ErrSourceMissing = errors.New("source file does not exist")
	// ErrInvalidHeader is returned when the header region does not parse as
	// the expected JSON object, usually meaning a wrong passphrase or no
	// slug present at this offset.
	ErrInvalidHeader = errors.New("invalid slug header")
	// ErrIntegrityFailed is returned when the header parses but the
	// payload's SHA-256 does not match header.sha256hash.
	ErrIntegrityFailed = errors.New("payload integrity check failed")
	// ErrHeaderTooLarge means the header JSON itself doesn't fit in
	// HeaderRegionBytes even with empty padding (should not happen for
	// this codec's fixed-shape header). It also wraps failures of the
	// random source or the JSON encoder while a slug is being built.
	ErrHeaderTooLarge = errors.New("slug header does not fit in header region")
)
