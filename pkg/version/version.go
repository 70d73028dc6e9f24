// Package version provides protocol version parsing and compatibility
// checks.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Current is the protocol version implemented by this library.
const Current = "1.0"

// Version represents a parsed "major.minor" protocol version.
type Version struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string. A bare major ("2") is
// accepted as "2.0".
func Parse(s string) (Version, error) {
	major, minor, found := strings.Cut(s, ".")
	if major == "" {
		return Version{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	maj, err := strconv.ParseUint(major, 10, 16)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	var min uint64
	if found {
		min, err = strconv.ParseUint(minor, 10, 16)
		if err != nil || minor == "" {
			return Version{}, fmt.Errorf("invalid version %q: bad minor component", s)
		}
	}

	return Version{Major: uint16(maj), Minor: uint16(min)}, nil
}

// String returns the version as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compatible reports whether the other version has the same major
// version. Minor versions are forward-compatible: unknown message types
// and fields are ignored.
func (v Version) Compatible(other Version) bool {
	return v.Major == other.Major
}

// CompatibleWith reports whether a server advertising version s can be
// joined by this library. Servers that advertise no version are
// accepted.
func CompatibleWith(s string) bool {
	if s == "" {
		return true
	}
	server, err := Parse(s)
	if err != nil {
		return false
	}
	current, _ := Parse(Current)
	return current.Compatible(server)
}
