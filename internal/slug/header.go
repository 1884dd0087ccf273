// Package slug builds and parses the cluster-aligned, self-describing
// payload container ("slug") that this tool scatters across a FAT32
// image's free clusters. See spec.md §3, §4.2, §6 for the normative layout.
package slug

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"

	"github.com/davidbonn/sneaky-pete/internal/checkpoint"
)

// Layout constants, normative per spec.md §3 and §6.
const (
	RandomPrefixBytes = 17
	HeaderRegionBytes = 1024
	nonceChars        = 64
)

// Header is the ASCII JSON object stored at slug offset [17, 1024). Field
// order matters: encoding/json marshals struct fields in declaration order,
// and this order is already the lexicographic one spec.md §6 requires
// ("argle" first, "zargle"/"zzpadding" last), so a plain struct marshal
// satisfies "sorted keys" without a map or custom encoder.
type Header struct {
	Argle      string `json:"argle"`
	Clusters   int    `json:"clusters"`
	Length     int    `json:"length"`
	Sha256Hash string `json:"sha256hash"`
	Zargle     string `json:"zargle"`
	ZzPadding  string `json:"zzpadding"`
}

// blankHeader returns a header with fresh argle/zargle nonces and zero
// clusters/length/hash/padding, ready to be sized by headerBytes.
func blankHeader() (Header, error) {
	argle, err := randomURLSafeToken(nonceChars)
	if err != nil {
		return Header{}, err
	}
	zargle, err := randomURLSafeToken(nonceChars)
	if err != nil {
		return Header{}, err
	}

	return Header{
		Argle:  argle,
		Zargle: zargle,
	}, nil
}

// headerBytes serializes h with sorted (struct-order) keys, sizing
// ZzPadding so that RandomPrefixBytes + len(json) == HeaderRegionBytes
// exactly, then returns RandomPrefixBytes of fresh random bytes followed by
// that JSON. The result is always exactly HeaderRegionBytes long.
func headerBytes(h Header) ([]byte, error) {
	h.ZzPadding = ""
	base, err := json.Marshal(h)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrHeaderTooLarge)
	}

	paddingSize := HeaderRegionBytes - (len(base) + RandomPrefixBytes)
	if paddingSize < 0 {
		return nil, checkpoint.From(ErrHeaderTooLarge)
	}

	padding, err := randomURLSafeToken(paddingSize)
	if err != nil {
		return nil, err
	}
	h.ZzPadding = padding

	final, err := json.Marshal(h)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrHeaderTooLarge)
	}
	if len(final) != HeaderRegionBytes-RandomPrefixBytes {
		return nil, checkpoint.From(ErrHeaderTooLarge)
	}

	prefix := make([]byte, RandomPrefixBytes)
	if _, err := rand.Read(prefix); err != nil {
		return nil, checkpoint.Wrap(err, ErrHeaderTooLarge)
	}

	return append(prefix, final...), nil
}

// randomURLSafeToken returns a string of exactly n URL-safe base64
// characters, mirroring Python's secrets.token_urlsafe(nbytes): generate
// more entropy than strictly needed, encode, then truncate to the exact
// character count (see original_source/slug.py's slug_header_bytes).
func randomURLSafeToken(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}

	rawBytes := n // base64 expands by 4/3, so n raw bytes is always enough
	buf := make([]byte, rawBytes+3)
	if _, err := rand.Read(buf); err != nil {
		return "", checkpoint.Wrap(err, ErrHeaderTooLarge)
	}

	encoded := base64.RawURLEncoding.EncodeToString(buf)
	return encoded[:n], nil
}
