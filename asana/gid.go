package asana

import (
	"encoding/binary"
	"strconv"

	"github.com/gofrs/uuid"
)

// gids are 16 digit decimal strings, like the ones issued by Asana
const gidSpace = 9_000_000_000_000_000

// NewGID returns a fresh numeric gid derived from a random V4 UUID
func NewGID() string {
	id, err := uuid.NewV4()
	if err != nil {
		panic(err)
	}
	n := binary.BigEndian.Uint64(id.Bytes()[:8]) % gidSpace
	return strconv.FormatUint(n+1_000_000_000_000_000, 10)
}

// IsGID reports whether s looks like a gid issued by NewGID or by Asana
func IsGID(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
