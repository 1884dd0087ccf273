// Package placement maps a slug's cluster-sized blocks onto a free-cluster
// list and performs the writes/reads in that order. The two-phase read
// get/check need when the slug's cluster count isn't known up front is
// built on ReadSlug in internal/ops. See spec.md §4.4.
package placement

import (
	"errors"

	"github.com/davidbonn/sneaky-pete/internal/fat32"
)

var (
	// ErrInsufficientSpace is returned when the slug needs more clusters
	// than the free-cluster list has room for.
	ErrInsufficientSpace = errors.New("placement: not enough free clusters for this slug")
	// ErrTruncated is returned when a read is asked for more clusters than
	// the free-cluster list contains.
	ErrTruncated = errors.New("placement: free-cluster list is shorter than the requested read")
)

// WriteSlug partitions slugBytes into fs.BytesPerCluster()-sized blocks and
// writes block i to freeList[i], in order.
func WriteSlug(fs fat32.ClusterDevice, freeList []uint32, slugBytes []byte) error {
	bytesPerCluster := int(fs.BytesPerCluster())
	k := len(slugBytes) / bytesPerCluster

	if k > len(freeList) {
		return ErrInsufficientSpace
	}

	for i := 0; i < k; i++ {
		block := slugBytes[i*bytesPerCluster : (i+1)*bytesPerCluster]
		if err := fs.WriteCluster(freeList[i], block); err != nil {
			return err
		}
	}

	return nil
}

// ReadSlug concatenates the first k clusters of freeList.
func ReadSlug(fs fat32.ClusterDevice, k int, freeList []uint32) ([]byte, error) {
	if k > len(freeList) {
		return nil, ErrTruncated
	}

	out := make([]byte, 0, k*int(fs.BytesPerCluster()))
	for i := 0; i < k; i++ {
		block, err := fs.ReadCluster(freeList[i])
		if err != nil {
			return nil, err
		}
		out = append(out, block...)
	}

	return out, nil
}
