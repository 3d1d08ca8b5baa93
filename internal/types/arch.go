// Package types defines the shared data model for artifact discovery and
// patching: target architectures, catalog entries, version pages, and
// download variants.
package types

import "fmt"

// Architecture identifies the target ABI of a binary package.
type Architecture string

// The closed set of recognized architectures. ArchUnknown is a classifier
// outcome, never a valid member of a requested set.
const (
	ArchArm     Architecture = "armeabi-v7a"
	ArchArm64   Architecture = "arm64-v8a"
	ArchX86     Architecture = "x86"
	ArchX86_64  Architecture = "x86_64"
	ArchAll     Architecture = "universal"
	ArchUnknown Architecture = "unknown"
)

// AllArchitectures returns the full closed enum in canonical order.
// The 64-bit variants come before their 32-bit substrings so containment
// checks stay unambiguous.
func AllArchitectures() []Architecture {
	return []Architecture{ArchArm64, ArchArm, ArchX86_64, ArchX86, ArchAll}
}

// ParseArchitecture converts a configuration string into an Architecture.
func ParseArchitecture(s string) (Architecture, error) {
	for _, a := range AllArchitectures() {
		if s == string(a) {
			return a, nil
		}
	}
	return ArchUnknown, fmt.Errorf("unknown architecture %q", s)
}

// ContainsArch reports whether arch is present in the set.
func ContainsArch(set []Architecture, arch Architecture) bool {
	for _, a := range set {
		if a == arch {
			return true
		}
	}
	return false
}
