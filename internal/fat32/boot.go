// Package fat32 parses the boot sector and File Allocation Table of a FAT32
// block image well enough to enumerate free data clusters and to read or
// write those clusters by number. It never interprets directory entries or
// file chains; that is explicitly out of scope for this tool.
package fat32

import (
	"bytes"
	"encoding/binary"

	"github.com/davidbonn/sneaky-pete/internal/checkpoint"
)

// bpb mirrors the BIOS Parameter Block common to FAT12/16/32, as laid out at
// the start of sector 0.
type bpb struct {
	BSJumpBoot          [3]byte
	BSOEMName           [8]byte
	BytesPerSector      uint16
	SectorsPerCluster   byte
	ReservedSectorCount uint16
	NumFATs             byte
	RootEntryCount      uint16
	TotalSectors16      uint16
	Media               byte
	FATSize16           uint16
	SectorsPerTrack     uint16
	NumberOfHeads       uint16
	HiddenSectors       uint32
	TotalSectors32      uint32
	FATSpecificData     [54]byte
}

// fat32SpecificData is the FAT32-only tail of the BPB, overlaid on
// bpb.FATSpecificData.
type fat32SpecificData struct {
	FatSize          uint32
	ExtFlags         uint16
	FSVersion        uint16
	RootCluster      uint32
	FSInfo           uint16
	BkBootSector     uint16
	Reserved         [12]byte
	BSDriveNumber    byte
	BSReserved1      byte
	BSBootSig        byte
	BSVolumeID       uint32
	BSVolumeLabel    [11]byte
	BSFileSystemType [8]byte
}

// Info holds everything derived from the boot sector that the rest of this
// package and internal/placement need: geometry to address clusters, plus
// the totals used to bound free-cluster enumeration.
type Info struct {
	BytesPerSector      uint16
	SectorsPerCluster   uint8
	ReservedSectorCount uint16
	NumFATs             uint8
	FATSize             uint32
	FirstDataSector     uint32
	TotalSectorCount    uint32
	Label               string

	BytesPerCluster      uint32
	FirstDataByteOffset  uint64
	TotalClusters        uint32
}

// MinDataCluster and the bad-cluster / free-cluster sentinels are fixed by
// the FAT32 specification.
const (
	MinDataCluster      = 2
	freeClusterValue    = 0x00000000
	badClusterValue     = 0x0FFFFFF7
	fat32EntryMask      = 0x0FFFFFFF
)

func parseBootSector(sector []byte) (Info, error) {
	b := bpb{}
	if err := binary.Read(bytes.NewReader(sector), binary.LittleEndian, &b); err != nil {
		return Info{}, checkpoint.Wrap(err, ErrImageParseFailed)
	}

	if !(b.BSJumpBoot[0] == 0xEB && b.BSJumpBoot[2] == 0x90) && b.BSJumpBoot[0] != 0xE9 {
		return Info{}, checkpoint.From(ErrImageParseFailed)
	}

	if b.BytesPerSector != 512 && b.BytesPerSector != 1024 && b.BytesPerSector != 2048 && b.BytesPerSector != 4096 {
		return Info{}, checkpoint.From(ErrImageParseFailed)
	}

	if b.SectorsPerCluster == 0 || (b.SectorsPerCluster&(b.SectorsPerCluster-1)) != 0 {
		return Info{}, checkpoint.From(ErrImageParseFailed)
	}

	if b.ReservedSectorCount == 0 || b.NumFATs < 1 {
		return Info{}, checkpoint.From(ErrImageParseFailed)
	}

	if sector[510] != 0x55 || sector[511] != 0xAA {
		return Info{}, checkpoint.From(ErrImageParseFailed)
	}

	// FAT32 never uses the 16-bit total/FAT-size fields or a root entry count.
	if b.FATSize16 != 0 || b.RootEntryCount != 0 {
		return Info{}, checkpoint.From(ErrNotFAT32)
	}

	var fat32Specific fat32SpecificData
	if err := binary.Read(bytes.NewReader(b.FATSpecificData[:]), binary.LittleEndian, &fat32Specific); err != nil {
		return Info{}, checkpoint.Wrap(err, ErrImageParseFailed)
	}

	if fat32Specific.FatSize == 0 {
		return Info{}, checkpoint.From(ErrNotFAT32)
	}

	totalSectors := b.TotalSectors32
	if totalSectors == 0 {
		totalSectors = uint32(b.TotalSectors16)
	}

	firstDataSector := uint32(b.ReservedSectorCount) + uint32(b.NumFATs)*fat32Specific.FatSize
	dataSectors := totalSectors - firstDataSector
	countOfClusters := dataSectors / uint32(b.SectorsPerCluster)

	// FATSize16 == 0 and RootEntryCount == 0 (checked above) are themselves
	// the FAT32 marker; this doesn't additionally gate on the
	// Microsoft-recommended >=65525-cluster threshold, since that's a
	// formatter guideline rather than something a reader must enforce, and
	// gating on it would reject small hand-built test images.
	bytesPerCluster := uint32(b.BytesPerSector) * uint32(b.SectorsPerCluster)

	info := Info{
		BytesPerSector:      b.BytesPerSector,
		SectorsPerCluster:   b.SectorsPerCluster,
		ReservedSectorCount: b.ReservedSectorCount,
		NumFATs:             b.NumFATs,
		FATSize:             fat32Specific.FatSize,
		FirstDataSector:     firstDataSector,
		TotalSectorCount:    totalSectors,
		Label:               string(fat32Specific.BSVolumeLabel[:]),

		BytesPerCluster:     bytesPerCluster,
		FirstDataByteOffset: uint64(firstDataSector) * uint64(b.BytesPerSector),
		TotalClusters:       countOfClusters,
	}

	return info, nil
}
