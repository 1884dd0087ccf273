package fat32

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/davidbonn/sneaky-pete/internal/checkpoint"
)

// Mode selects how the underlying image is opened.
type Mode int

const (
	ReadOnly Mode = iota
	ReadWrite
)

// FS is a parsed FAT32 image: boot-sector geometry plus the whole FAT cached
// as an in-memory array of 32-bit entries, held open over a seekable image.
type FS struct {
	image       afero.File
	info        Info
	fat         []uint32
	imageLength int64
	log         *zap.SugaredLogger
}

// ClusterDevice is the narrow surface internal/placement needs: reading and
// writing whole clusters by number, plus enough geometry to size blocks and
// enumerate free space. It exists so placement can be tested against a
// golang/mock double instead of a real image.
type ClusterDevice interface {
	BytesPerCluster() uint32
	ReadCluster(n uint32) ([]byte, error)
	WriteCluster(n uint32, data []byte) error
	FreeClusters(offset int) ([]uint32, error)
}

// Open parses the boot sector and FAT of the image at path within fsys. log
// may be nil, in which case cluster-write failures are swallowed silently
// rather than logged (see WriteCluster).
func Open(fsys afero.Fs, path string, mode Mode, log *zap.SugaredLogger) (*FS, error) {
	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrImageMissing)
	}
	if !exists {
		return nil, checkpoint.From(ErrImageMissing)
	}

	flag := os.O_RDONLY
	if mode == ReadWrite {
		flag = os.O_RDWR
	}

	image, err := fsys.OpenFile(path, flag, 0)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrImageMissing)
	}

	stat, err := image.Stat()
	if err != nil {
		_ = image.Close()
		return nil, checkpoint.Wrap(err, ErrImageParseFailed)
	}

	boot := make([]byte, 512)
	if _, err := io.ReadFull(io.NewSectionReader(image, 0, 512), boot); err != nil {
		_ = image.Close()
		return nil, checkpoint.Wrap(err, ErrImageParseFailed)
	}

	info, err := parseBootSector(boot)
	if err != nil {
		_ = image.Close()
		return nil, err
	}

	fatByteLen := int64(info.FATSize) * int64(info.BytesPerSector)
	fatBytes := make([]byte, fatByteLen)
	fatByteOffset := int64(info.ReservedSectorCount) * int64(info.BytesPerSector)
	if _, err := image.ReadAt(fatBytes, fatByteOffset); err != nil {
		_ = image.Close()
		return nil, checkpoint.Wrap(err, ErrReadFAT)
	}

	fat := make([]uint32, len(fatBytes)/4)
	for i := range fat {
		fat[i] = binary.LittleEndian.Uint32(fatBytes[i*4:i*4+4]) & fat32EntryMask
	}

	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return &FS{
		image:       image,
		info:        info,
		fat:         fat,
		imageLength: stat.Size(),
		log:         log,
	}, nil
}

// Close releases the underlying image handle.
func (f *FS) Close() error {
	return f.image.Close()
}

// Info returns the parsed boot-sector geometry.
func (f *FS) Info() Info {
	return f.info
}

// BytesPerCluster is the cluster size derived from the boot sector.
func (f *FS) BytesPerCluster() uint32 {
	return f.info.BytesPerCluster
}

// ImageLength is the size in bytes of the underlying image.
func (f *FS) ImageLength() int64 {
	return f.imageLength
}

// MaxDataCluster is the highest cluster index the FAT array actually
// describes.
func (f *FS) MaxDataCluster() uint32 {
	return uint32(len(f.fat)) - 1
}

// FATEntry returns the raw (masked) FAT entry for cluster n.
func (f *FS) FATEntry(n uint32) (uint32, error) {
	if n >= uint32(len(f.fat)) {
		return 0, checkpoint.From(ErrClusterOutOfRange)
	}
	return f.fat[n], nil
}

// ClusterByteOffset implements spec.md §3's invariant:
// first_data_byte_offset + (n-2)*bytes_per_cluster.
func (f *FS) ClusterByteOffset(n uint32) uint64 {
	return f.info.FirstDataByteOffset + uint64(n-MinDataCluster)*uint64(f.info.BytesPerCluster)
}

// ReadCluster reads exactly BytesPerCluster bytes from cluster n.
func (f *FS) ReadCluster(n uint32) ([]byte, error) {
	buf := make([]byte, f.info.BytesPerCluster)
	if _, err := f.image.ReadAt(buf, int64(f.ClusterByteOffset(n))); err != nil {
		return nil, checkpoint.Wrap(err, ErrFetchingCluster)
	}
	return buf, nil
}

// WriteCluster writes exactly BytesPerCluster bytes to cluster n. Per
// spec.md §4.1 and §7, an I/O write error here is logged and swallowed: the
// caller (put/bleach) continues rather than aborting. This is a documented
// weakness, not an oversight — see DESIGN.md.
func (f *FS) WriteCluster(n uint32, data []byte) error {
	if _, err := f.image.WriteAt(data, int64(f.ClusterByteOffset(n))); err != nil {
		f.log.Warnw("cluster write failed, continuing", "cluster", n, "error", err)
	}
	return nil
}

// FreeClusters enumerates free data clusters in the canonical order spec.md
// §4.1 defines, then applies the offset's direction/skip.
func (f *FS) FreeClusters(offset int) ([]uint32, error) {
	if f.info.BytesPerCluster == 0 {
		return nil, checkpoint.From(ErrNotFAT32)
	}

	lastSafeByte := uint64(f.imageLength) - uint64(f.info.BytesPerCluster)

	var clusters []uint32
	maxDataCluster := f.MaxDataCluster()
	for i := uint32(0); i < uint32(len(f.fat)); i++ {
		if i < MinDataCluster || i > maxDataCluster {
			continue
		}

		if f.ClusterByteOffset(i) >= lastSafeByte {
			break
		}

		if !fatEntry(f.fat[i]).IsFree() {
			continue
		}

		if i == badClusterValue {
			continue
		}

		// This tool is FAT32-only, so the FAT12 end-of-chain index never
		// appears here; the guard is kept in case a future version adds
		// FAT12 support (spec.md §3, §9).
		if i == fat12EOC {
			continue
		}

		clusters = append(clusters, i)
	}

	if offset < 0 {
		for l, r := 0, len(clusters)-1; l < r; l, r = l+1, r-1 {
			clusters[l], clusters[r] = clusters[r], clusters[l]
		}
	}

	skip := offset
	if skip < 0 {
		skip = -skip
	}
	if skip > 1 {
		skip--
		if skip > len(clusters) {
			skip = len(clusters)
		}
		clusters = clusters[skip:]
	}

	return clusters, nil
}
