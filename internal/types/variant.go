package types

// VersionProvenance records how a version page URL was obtained.
type VersionProvenance string

const (
	// ProvenanceDiscovered means the page was found on the catalog root.
	ProvenanceDiscovered VersionProvenance = "discovered"
	// ProvenanceConstructed means the URL was built from a known version.
	ProvenanceConstructed VersionProvenance = "constructed"
)

// VersionPage is one version-specific page of an app's catalog listing.
// Version is a dot-separated sequence of non-negative integers, or the
// sentinel "any"/"latest".
type VersionPage struct {
	URL        string
	Version    string
	Provenance VersionProvenance
}

// Candidate is a download-intent link found on a version page, tagged with
// the best-effort architecture classification.
type Candidate struct {
	URL     string
	Text    string
	Context string
	Arch    Architecture
}

// ContentKind classifies what a resolved download URL points at.
type ContentKind string

const (
	ContentBinaryPackage ContentKind = "binary-package"
	ContentUnknown       ContentKind = "unknown"
)

// ResolvedDownload is the terminal result of walking a confirmation chain.
type ResolvedDownload struct {
	URL  string
	Kind ContentKind
}

// DownloadOutcome reports the result of streaming one artifact to disk.
type DownloadOutcome struct {
	Path     string
	Success  bool
	Attempts int
	Bytes    int64
}
