package fat32

import "errors"

// These errors may occur while opening or operating on a FAT32 image.
var (
	ErrImageMissing      = errors.New("image does not exist")
	ErrImageParseFailed  = errors.New("boot sector unreadable or not a valid FAT filesystem")
	ErrNotFAT32          = errors.New("image is not a FAT32 filesystem")
	ErrFetchingCluster   = errors.New("could not fetch cluster")
	ErrReadFAT           = errors.New("could not read FAT entry")
	ErrClusterOutOfRange = errors.New("cluster out of range")
)
