package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArchitecture(t *testing.T) {
	arch, err := ParseArchitecture("arm64-v8a")
	require.NoError(t, err)
	assert.Equal(t, ArchArm64, arch)

	_, err = ParseArchitecture("mips")
	assert.Error(t, err)
}

func TestAllArchitectures_SubstringOrdering(t *testing.T) {
	// Every architecture that is a substring of another must come after it,
	// so first-match containment scans resolve to the longer name.
	all := AllArchitectures()
	for i, a := range all {
		for _, b := range all[i+1:] {
			assert.False(t, strings.Contains(string(b), string(a)),
				"%s precedes its superstring %s", a, b)
		}
	}
}

func TestContainsArch(t *testing.T) {
	set := []Architecture{ArchArm64, ArchAll}
	assert.True(t, ContainsArch(set, ArchAll))
	assert.False(t, ContainsArch(set, ArchX86))
	assert.False(t, ContainsArch(nil, ArchArm64))
}

func TestCatalogEntryStrategy(t *testing.T) {
	e := CatalogEntry{SupportsAnyVersion: true}
	assert.Equal(t, StrategyAnyVersion, e.Strategy())

	e = CatalogEntry{SupportedVersions: []string{VersionAny, "1.2.3"}}
	assert.Equal(t, StrategyAnyVersion, e.Strategy())

	e = CatalogEntry{SupportedVersions: []string{"1.2.3"}}
	assert.Equal(t, StrategySpecificVersions, e.Strategy())

	e = CatalogEntry{}
	assert.Equal(t, StrategyFallback, e.Strategy())
}
