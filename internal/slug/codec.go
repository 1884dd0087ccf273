package slug

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"

	"github.com/davidbonn/sneaky-pete/internal/checkpoint"
)

// MakeSlug reads srcPath fully, builds the header + payload + random
// padding stream described in spec.md §3, and returns it sized to a
// multiple of clusterSize.
func MakeSlug(srcPath string, clusterSize uint32) ([]byte, error) {
	if _, err := os.Stat(srcPath); err != nil {
		return nil, checkpoint.Wrap(err, ErrSourceMissing)
	}

	data, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrSourceMissing)
	}

	sum := sha256.Sum256(data)

	header, err := blankHeader()
	if err != nil {
		return nil, err
	}
	header.Length = len(data)
	header.Sha256Hash = hex.EncodeToString(sum[:])
	header.Clusters = clusterCount(header.Length, clusterSize)

	hdrBytes, err := headerBytes(header)
	if err != nil {
		return nil, err
	}

	slugBytes := make([]byte, 0, int(clusterSize)*header.Clusters)
	slugBytes = append(slugBytes, hdrBytes...)
	slugBytes = append(slugBytes, data...)

	return padToClusterSize(slugBytes, clusterSize)
}

// clusterCount is spec.md §4.2's N = ceil((1024 + length) / cluster_size).
func clusterCount(length int, clusterSize uint32) int {
	total := HeaderRegionBytes + length
	n := total / int(clusterSize)
	if total%int(clusterSize) != 0 {
		n++
	}
	return n
}

// padToClusterSize appends cryptographically random bytes so the result's
// length is a multiple of clusterSize.
func padToClusterSize(b []byte, clusterSize uint32) ([]byte, error) {
	excess := len(b) % int(clusterSize)
	if excess == 0 {
		return b, nil
	}

	pad := make([]byte, int(clusterSize)-excess)
	if _, err := rand.Read(pad); err != nil {
		return nil, checkpoint.Wrap(err, ErrHeaderTooLarge)
	}
	return append(b, pad...), nil
}

// ExtractHeader decodes the header region of a decrypted slug byte stream.
func ExtractHeader(slugBytes []byte) (Header, error) {
	if len(slugBytes) < HeaderRegionBytes {
		return Header{}, checkpoint.From(ErrInvalidHeader)
	}

	var header Header
	if err := json.Unmarshal(slugBytes[RandomPrefixBytes:HeaderRegionBytes], &header); err != nil {
		return Header{}, checkpoint.Wrap(err, ErrInvalidHeader)
	}

	return header, nil
}

// ExtractPayload extracts the header and writes the payload bytes to
// dstPath without verifying the integrity hash (that is Verify's job). This
// allows best-effort recovery of a partially corrupted payload.
func ExtractPayload(slugBytes []byte, dstPath string) error {
	header, err := ExtractHeader(slugBytes)
	if err != nil {
		return err
	}

	end := HeaderRegionBytes + header.Length
	if end > len(slugBytes) || header.Length < 0 {
		return checkpoint.From(ErrInvalidHeader)
	}

	return os.WriteFile(dstPath, slugBytes[HeaderRegionBytes:end], 0o600)
}

// Verify reports whether the header parses and the payload's SHA-256
// matches header.sha256hash.
func Verify(slugBytes []byte) bool {
	header, err := ExtractHeader(slugBytes)
	if err != nil {
		return false
	}

	end := HeaderRegionBytes + header.Length
	if end > len(slugBytes) || header.Length < 0 {
		return false
	}

	sum := sha256.Sum256(slugBytes[HeaderRegionBytes:end])
	return hex.EncodeToString(sum[:]) == header.Sha256Hash
}
