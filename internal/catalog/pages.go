package catalog

import (
	"context"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/jonathan/autopatch/internal/fetch"
	"github.com/jonathan/autopatch/internal/types"
)

var (
	releaseSuffixRe   = regexp.MustCompile(`-release/?$`)
	versionedSuffixRe = regexp.MustCompile(`/[^/]+-\d+(?:[.-]\d+)*[^/]*-release/?$`)
	listingClassRe    = regexp.MustCompile(`(?i)version|release`)
	releaseHintRe     = regexp.MustCompile(`release`)
	numericRunRe      = regexp.MustCompile(`\d+[.-]\d+[.-]\d+`)
)

// familyBound is a per-app-family sanity range for the leading version
// component. Links outside the range are treated as misparsed noise.
type familyBound struct {
	token    string
	min, max int
}

var familyBounds = []familyBound{
	{token: "youtube", min: 10, max: 50},
	{token: "photos", min: 1, max: 20},
}

// Generic sanity bounds applied when no app family matches.
const (
	genericMajorMin = 1
	genericMajorMax = 100
)

// DiscoverVersionPages enumerates candidate version pages from an app's
// catalog root, newest first as listed on the page. A network or parse
// failure returns an empty list; the caller treats that as "no versions
// found", never as fatal.
func DiscoverVersionPages(ctx context.Context, client *fetch.Client, rootURL string, limit int) []types.VersionPage {
	doc, err := client.GetDocument(ctx, rootURL)
	if err != nil {
		log.FromContext(ctx).Debug("catalog root fetch failed", "url", rootURL, "err", err)
		return nil
	}
	return ParseVersionPages(doc, rootURL, limit)
}

// ParseVersionPages extracts version pages from an already-fetched catalog
// document. Split out from DiscoverVersionPages for testability.
func ParseVersionPages(doc *fetch.Document, rootURL string, limit int) []types.VersionPage {
	// Union of several independent link-shape heuristics. The catalog site
	// has shipped at least four listing layouts; any one heuristic alone
	// misses some of them.
	var links []*fetch.Node
	links = append(links, doc.FindAllByAttrRegex("a", "href", releaseSuffixRe)...)
	links = append(links, doc.FindAllByAttrRegex("a", "href", versionedSuffixRe)...)
	for _, container := range doc.FindAllByAttrRegex("div, section", "class", listingClassRe) {
		links = append(links, container.FindAllByAttrRegex("a", "href", releaseHintRe)...)
	}
	links = append(links, doc.FindAllByAttrRegex("a", "href", numericRunRe)...)

	seenHrefs := make(map[string]bool)
	seenVersions := make(map[string]bool)
	pages := make([]types.VersionPage, 0, limit)

	for _, link := range links {
		if len(pages) >= limit {
			break
		}
		href, ok := link.Attr("href")
		if !ok || href == "" {
			continue
		}
		if seenHrefs[href] {
			continue
		}
		seenHrefs[href] = true

		version := ExtractVersion(href)
		if version == FallbackVersion {
			continue
		}
		if !majorWithinBounds(rootURL, version) {
			continue
		}
		if seenVersions[version] {
			continue
		}
		seenVersions[version] = true

		pages = append(pages, types.VersionPage{
			URL:        doc.ResolveURL(href),
			Version:    version,
			Provenance: types.ProvenanceDiscovered,
		})
	}
	return pages
}

// majorWithinBounds applies the per-family (or generic) sanity range to the
// leading version component. Unparseable components pass through; the bound
// only rejects confidently wrong values.
func majorWithinBounds(rootURL, version string) bool {
	major := majorComponent(version)
	if major < 0 {
		return true
	}
	for _, bound := range familyBounds {
		if strings.Contains(rootURL, bound.token) {
			return major >= bound.min && major <= bound.max
		}
	}
	return major >= genericMajorMin && major <= genericMajorMax
}
