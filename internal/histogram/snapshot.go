package histogram

// Snapshot is a consistent copy of a histogram at one point in time.
type Snapshot struct {
	Width  int
	Height int
	Counts []uint32
}

// At returns the count at (x, y).
func (s *Snapshot) At(x, y int) uint32 {
	return s.Counts[y*s.Width+x]
}

// Max returns the largest count.
func (s *Snapshot) Max() uint32 {
	var m uint32
	for _, c := range s.Counts {
		if c > m {
			m = c
		}
	}
	return m
}

// Total returns the sum of every count.
func (s *Snapshot) Total() uint64 {
	var t uint64
	for _, c := range s.Counts {
		t += uint64(c)
	}
	return t
}

// Equal reports whether two snapshots hold identical grids.
func (s *Snapshot) Equal(o *Snapshot) bool {
	if s.Width != o.Width || s.Height != o.Height || len(s.Counts) != len(o.Counts) {
		return false
	}
	for i := range s.Counts {
		if s.Counts[i] != o.Counts[i] {
			return false
		}
	}
	return true
}
