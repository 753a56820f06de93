package util

// DiskSpace reports filesystem capacity in bytes.
type DiskSpace struct {
	Free  uint64
	Total uint64
}

func (d DiskSpace) FreeGB() float64 {
	return float64(d.Free) / (1 << 30)
}
