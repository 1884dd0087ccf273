package fat32

import (
	"encoding/binary"

	"github.com/spf13/afero"
)

// fakeImageSpec describes a minimal, hand-built FAT32 image: just enough
// boot sector and FAT to exercise this package's parsing and free-cluster
// enumeration, with no directory entries or file data. Grounded on
// original_source/fakefs.py's role in the Python test suite (building fake
// filesystems instead of shelling out to a real formatter, per spec.md
// §1's non-goal of creating fresh FAT32 images).
type fakeImageSpec struct {
	BytesPerSector      uint16
	SectorsPerCluster   uint8
	ReservedSectorCount uint16
	NumFATs             uint8
	FATSizeSectors      uint32
	TotalSectors        uint32
	VolumeLabel         string

	// AllocatedClusters marks clusters as in-use (non-zero FAT entry).
	AllocatedClusters []uint32
	// BadClusters marks clusters with the FAT32 bad-cluster sentinel.
	BadClusters []uint32
}

func defaultFakeImageSpec() fakeImageSpec {
	return fakeImageSpec{
		BytesPerSector:      512,
		SectorsPerCluster:   8, // 4096-byte clusters
		ReservedSectorCount: 32,
		NumFATs:             1,
		FATSizeSectors:      4,
		TotalSectors:        4096, // 2MiB image
		VolumeLabel:         "TESTVOL    ",
	}
}

// build assembles the raw image bytes: boot sector, FAT region, and a
// zeroed data region sized to TotalSectors.
func (s fakeImageSpec) build() []byte {
	image := make([]byte, int(s.TotalSectors)*int(s.BytesPerSector))

	boot := image[:int(s.BytesPerSector)]
	boot[0], boot[1], boot[2] = 0xEB, 0x3C, 0x90
	copy(boot[3:11], []byte("MSWIN4.1"))
	binary.LittleEndian.PutUint16(boot[11:13], s.BytesPerSector)
	boot[13] = s.SectorsPerCluster
	binary.LittleEndian.PutUint16(boot[14:16], s.ReservedSectorCount)
	boot[16] = s.NumFATs
	// RootEntryCount (17:19) stays zero: required for FAT32.
	// TotalSectors16 (19:21) stays zero; TotalSectors32 (32:36) is used.
	boot[21] = 0xF8 // Media
	// FATSize16 (22:24) stays zero: required for FAT32.
	binary.LittleEndian.PutUint32(boot[32:36], s.TotalSectors)

	fat32Specific := boot[36:90]
	binary.LittleEndian.PutUint32(fat32Specific[0:4], s.FATSizeSectors) // FatSize
	binary.LittleEndian.PutUint32(fat32Specific[8:12], 2)               // RootCluster
	// BS_VolLab sits at sector offset 71, i.e. byte 35 of the FAT32 tail.
	volLabel := fat32Specific[35:46]
	copy(volLabel, []byte(s.VolumeLabel))

	boot[510], boot[511] = 0x55, 0xAA

	fatByteOffset := int(s.ReservedSectorCount) * int(s.BytesPerSector)
	fat := image[fatByteOffset : fatByteOffset+int(s.FATSizeSectors)*int(s.BytesPerSector)]
	putFATEntry := func(n uint32, value uint32) {
		binary.LittleEndian.PutUint32(fat[n*4:n*4+4], value)
	}
	putFATEntry(0, 0x0FFFFFF8)
	putFATEntry(1, 0x0FFFFFFF)

	for _, c := range s.AllocatedClusters {
		putFATEntry(c, 0x0FFFFFFF)
	}
	for _, c := range s.BadClusters {
		putFATEntry(c, badClusterValue)
	}

	return image
}

// writeFakeImage builds the image and writes it to path within fsys,
// returning the byte slice that was written.
func writeFakeImage(fsys afero.Fs, path string, spec fakeImageSpec) []byte {
	data := spec.build()
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		panic(err)
	}
	return data
}
