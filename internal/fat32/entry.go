package fat32

// fatEntry is one 32-bit slot of the File Allocation Table. Only the low 28
// bits carry meaning for FAT32; the top nibble is reserved and must be
// masked off before comparing against any of the special values below.
type fatEntry uint32

func (e fatEntry) masked() uint32 {
	return uint32(e) & fat32EntryMask
}

// IsFree reports whether the cluster this entry describes is unallocated.
// A bad-cluster entry is never free (badClusterValue != freeClusterValue),
// so this alone is enough to exclude bad clusters from enumeration too.
func (e fatEntry) IsFree() bool {
	return e.masked() == freeClusterValue
}

// fat12EOC guards against ever treating FAT12's special end-of-chain value
// as a valid data cluster index, in case a future version adds FAT12
// support (spec.md §3's invariant is written defensively for that reason).
const fat12EOC = 0xFF0
