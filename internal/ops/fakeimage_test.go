package ops

import (
	"encoding/binary"

	"github.com/spf13/afero"
)

// buildFakeImage hand-assembles a minimal FAT32 image (boot sector + FAT
// region + zeroed data region, no directory entries) so these tests can
// exercise put/get/check/bleach without a real formatter, mirroring the
// internal/fat32 package's own fake-image test fixtures.
func buildFakeImage() []byte {
	const (
		bytesPerSector      = 512
		sectorsPerCluster   = 8 // 4096-byte clusters
		reservedSectorCount = 32
		numFATs             = 1
		fatSizeSectors      = 4
		totalSectors        = 4096 // 2MiB image
	)

	image := make([]byte, totalSectors*bytesPerSector)

	boot := image[:bytesPerSector]
	boot[0], boot[1], boot[2] = 0xEB, 0x3C, 0x90
	copy(boot[3:11], []byte("MSWIN4.1"))
	binary.LittleEndian.PutUint16(boot[11:13], bytesPerSector)
	boot[13] = sectorsPerCluster
	binary.LittleEndian.PutUint16(boot[14:16], reservedSectorCount)
	boot[16] = numFATs
	boot[21] = 0xF8
	binary.LittleEndian.PutUint32(boot[32:36], totalSectors)

	fat32Specific := boot[36:90]
	binary.LittleEndian.PutUint32(fat32Specific[0:4], fatSizeSectors)
	binary.LittleEndian.PutUint32(fat32Specific[8:12], 2)
	copy(fat32Specific[39:50], []byte("OPSTEST    "))

	boot[510], boot[511] = 0x55, 0xAA

	fatByteOffset := reservedSectorCount * bytesPerSector
	fat := image[fatByteOffset : fatByteOffset+fatSizeSectors*bytesPerSector]
	binary.LittleEndian.PutUint32(fat[0:4], 0x0FFFFFF8)
	binary.LittleEndian.PutUint32(fat[4:8], 0x0FFFFFFF)

	return image
}

func writeFakeImage(fsys afero.Fs, path string) {
	if err := afero.WriteFile(fsys, path, buildFakeImage(), 0o644); err != nil {
		panic(err)
	}
}
