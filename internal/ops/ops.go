// Package ops composes the FAT32 reader, slug codec, crypto envelope and
// placement engine into the four user-visible verbs from spec.md §4.5:
// put, get, check and bleach, plus an Info query supplementing the Python
// original's sneaky.py:info().
package ops

import (
	"crypto/rand"
	"errors"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/davidbonn/sneaky-pete/internal/envelope"
	"github.com/davidbonn/sneaky-pete/internal/fat32"
	"github.com/davidbonn/sneaky-pete/internal/placement"
	"github.com/davidbonn/sneaky-pete/internal/slug"
)

// InfoResult is the read-only, no-passphrase report spec.md's distillation
// dropped from the Python original's info() but original_source/sneaky.py
// shows plainly: volume label, cluster size, FAT entry count and
// free-cluster count at a given offset.
type InfoResult struct {
	Label            string
	BytesPerCluster  uint32
	FATEntryCount    int
	FreeClusterCount int
}

func mapOpenErr(err error) error {
	switch {
	case errors.Is(err, fat32.ErrImageMissing):
		return ErrImageMissing
	case errors.Is(err, fat32.ErrImageParseFailed), errors.Is(err, fat32.ErrNotFAT32):
		return ErrImageParseFailed
	default:
		return err
	}
}

func sugared(log *zap.SugaredLogger) *zap.SugaredLogger {
	if log == nil {
		return zap.NewNop().Sugar()
	}
	return log
}

// readFullSlug implements spec.md §4.4's two-phase read: read one cluster,
// decrypt it, parse the header to learn the real cluster count N, then (if
// N > 1) re-read and re-decrypt the full N-cluster span.
func readFullSlug(fs *fat32.FS, key [envelope.KeySize]byte, offset int) ([]uint32, []byte, error) {
	freeList, err := fs.FreeClusters(offset)
	if err != nil {
		return nil, nil, err
	}
	if len(freeList) == 0 {
		return freeList, nil, ErrInvalidHeader
	}

	firstCluster, err := placement.ReadSlug(fs, 1, freeList)
	if err != nil {
		return freeList, nil, ErrInsufficientFreeSpace
	}

	decryptedFirst, err := envelope.Decrypt(firstCluster, key)
	if err != nil {
		return freeList, nil, err
	}

	header, err := slug.ExtractHeader(decryptedFirst)
	if err != nil {
		return freeList, nil, ErrInvalidHeader
	}

	if header.Clusters <= 1 {
		return freeList, decryptedFirst, nil
	}

	raw, err := placement.ReadSlug(fs, header.Clusters, freeList)
	if err != nil {
		return freeList, nil, ErrInsufficientFreeSpace
	}

	full, err := envelope.Decrypt(raw, key)
	if err != nil {
		return freeList, nil, err
	}

	return freeList, full, nil
}

// Put embeds src into image's free clusters at offset, encrypted under
// passphrase. image is opened through fsys; src is read from the local
// filesystem.
func Put(fsys afero.Fs, image, src, passphrase string, offset int, log *zap.SugaredLogger) error {
	if passphrase == "" {
		return ErrPassphraseRequired
	}

	log = sugared(log).With("op", "put", "request_id", uuid.NewString())
	log.Infow("starting put", "image", image, "src", src, "offset", offset)

	fs, err := fat32.Open(fsys, image, fat32.ReadWrite, log)
	if err != nil {
		return mapOpenErr(err)
	}
	defer fs.Close()

	freeList, err := fs.FreeClusters(offset)
	if err != nil {
		return err
	}

	rawSlug, err := slug.MakeSlug(src, fs.BytesPerCluster())
	if err != nil {
		return err
	}

	clustersNeeded := len(rawSlug) / int(fs.BytesPerCluster())
	if clustersNeeded > len(freeList) {
		log.Warnw("insufficient free space", "needed", clustersNeeded, "available", len(freeList))
		return ErrInsufficientFreeSpace
	}

	key := envelope.DeriveKey(passphrase)
	encrypted, err := envelope.Encrypt(rawSlug, key)
	if err != nil {
		return err
	}

	if err := placement.WriteSlug(fs, freeList, encrypted); err != nil {
		if errors.Is(err, placement.ErrInsufficientSpace) {
			return ErrInsufficientFreeSpace
		}
		return err
	}

	log.Infow("put complete", "clusters_used", clustersNeeded)
	return nil
}

// Get recovers the payload at offset into dst. It returns true iff the
// slug header parsed (hash verification is Check's job, not Get's — this
// lets a partially corrupted payload still be recovered). image is opened
// through fsys; dst is written to the local filesystem.
func Get(fsys afero.Fs, image, dst, passphrase string, offset int, log *zap.SugaredLogger) (bool, error) {
	if passphrase == "" {
		return false, ErrPassphraseRequired
	}

	log = sugared(log).With("op", "get", "request_id", uuid.NewString())
	log.Infow("starting get", "image", image, "dst", dst, "offset", offset)

	fs, err := fat32.Open(fsys, image, fat32.ReadOnly, log)
	if err != nil {
		return false, mapOpenErr(err)
	}
	defer fs.Close()

	key := envelope.DeriveKey(passphrase)
	_, full, err := readFullSlug(fs, key, offset)
	if err != nil {
		if errors.Is(err, ErrInvalidHeader) {
			log.Warnw("no recoverable slug at this offset", "error", err)
			return false, nil
		}
		return false, err
	}

	if err := slug.ExtractPayload(full, dst); err != nil {
		log.Warnw("payload extraction failed", "error", err)
		return false, nil
	}

	log.Infow("get complete")
	return true, nil
}

// Check reports whether the slug at offset decrypts, parses and passes its
// integrity hash.
func Check(fsys afero.Fs, image, passphrase string, offset int, log *zap.SugaredLogger) (bool, error) {
	if passphrase == "" {
		return false, ErrPassphraseRequired
	}

	log = sugared(log).With("op", "check", "request_id", uuid.NewString())
	log.Infow("starting check", "image", image, "offset", offset)

	fs, err := fat32.Open(fsys, image, fat32.ReadOnly, log)
	if err != nil {
		return false, mapOpenErr(err)
	}
	defer fs.Close()

	key := envelope.DeriveKey(passphrase)
	_, full, err := readFullSlug(fs, key, offset)
	if err != nil {
		if errors.Is(err, ErrInvalidHeader) {
			return false, nil
		}
		return false, err
	}

	ok := slug.Verify(full)
	log.Infow("check complete", "ok", ok)
	return ok, nil
}

// Bleach overwrites every currently free cluster (enumerated at offset 1)
// with fresh random bytes, eliminating any prior slug or trace of one.
func Bleach(fsys afero.Fs, image string, log *zap.SugaredLogger) error {
	log = sugared(log).With("op", "bleach", "request_id", uuid.NewString())
	log.Infow("starting bleach", "image", image)

	fs, err := fat32.Open(fsys, image, fat32.ReadWrite, log)
	if err != nil {
		return mapOpenErr(err)
	}
	defer fs.Close()

	freeList, err := fs.FreeClusters(1)
	if err != nil {
		return err
	}

	buf := make([]byte, fs.BytesPerCluster())
	for _, cluster := range freeList {
		if _, err := rand.Read(buf); err != nil {
			return err
		}
		// WriteCluster never returns an error itself: write failures are
		// logged and swallowed so bleach always completes best-effort.
		_ = fs.WriteCluster(cluster, buf)
	}

	log.Infow("bleach complete", "clusters_wiped", len(freeList))
	return nil
}

// Info reports filesystem and free-space statistics without touching any
// slug. Read-only, no passphrase required.
func Info(fsys afero.Fs, image string, offset int, log *zap.SugaredLogger) (InfoResult, error) {
	log = sugared(log).With("op", "info", "request_id", uuid.NewString())

	fs, err := fat32.Open(fsys, image, fat32.ReadOnly, log)
	if err != nil {
		return InfoResult{}, mapOpenErr(err)
	}
	defer fs.Close()

	freeList, err := fs.FreeClusters(offset)
	if err != nil {
		return InfoResult{}, err
	}

	info := fs.Info()
	result := InfoResult{
		Label:            info.Label,
		BytesPerCluster:  info.BytesPerCluster,
		FATEntryCount:    int(fs.MaxDataCluster()) + 1,
		FreeClusterCount: len(freeList),
	}

	log.Infow("info complete", "free_clusters", result.FreeClusterCount)
	return result, nil
}
