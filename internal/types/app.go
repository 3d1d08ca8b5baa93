package types

// VersionStrategy selects how version pages are obtained for an app.
type VersionStrategy string

const (
	// StrategyAnyVersion discovers the latest version pages from the catalog root.
	StrategyAnyVersion VersionStrategy = "any-version"
	// StrategySpecificVersions constructs version-page URLs from a known list.
	StrategySpecificVersions VersionStrategy = "specific-versions"
	// StrategyFallback discovers from the catalog root with a smaller limit
	// when no version constraints are known.
	StrategyFallback VersionStrategy = "unconstrained-fallback"
)

// VersionAny is the sentinel version meaning "no version constraint".
const VersionAny = "any"

// CatalogEntry describes one app's discovery run. It is immutable for the
// duration of the run.
type CatalogEntry struct {
	Name               string
	PackageName        string
	CatalogURL         string
	Architectures      []Architecture
	PreferNoDPI        bool
	DownloadMultiple   bool
	SupportedVersions  []string
	RecommendedVersion string
	SupportsAnyVersion bool
}

// Strategy derives the version-selection strategy from the entry's
// patch-compatibility constraints.
func (e *CatalogEntry) Strategy() VersionStrategy {
	if e.SupportsAnyVersion || (len(e.SupportedVersions) > 0 && e.SupportedVersions[0] == VersionAny) {
		return StrategyAnyVersion
	}
	if len(e.SupportedVersions) > 0 {
		return StrategySpecificVersions
	}
	return StrategyFallback
}
