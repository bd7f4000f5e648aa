package wire

import "strconv"

// Version is the format version discovered in the stream, or none.
type Version struct {
	n     uint32
	known bool
}

// NoVersion is used before the version chunk has been seen.
var NoVersion = Version{}

// At returns a known version.
func At(n uint32) Version {
	return Version{n: n, known: true}
}

// Value returns the version number and whether it is known.
func (v Version) Value() (uint32, bool) {
	return v.n, v.known
}

// Above reports whether the version is known and strictly greater than threshold.
func (v Version) Above(threshold uint32) bool {
	return v.known && v.n > threshold
}

func (v Version) String() string {
	if !v.known {
		return "none"
	}
	return strconv.FormatUint(uint64(v.n), 10)
}
