package variants

import (
	"regexp"
	"strings"

	"github.com/jonathan/autopatch/internal/types"
)

// packagingClass is the packaging classification of one candidate.
type packagingClass int

const (
	packagingUnclassified packagingClass = iota
	packagingBundle
	packagingMonolithic
)

var (
	// The catalog numbers same-architecture variants in the URL slug: the
	// first (non-numbered) variant is the split bundle, second-or-later
	// numbered variants are monolithic packages.
	monolithicSuffixRe = regexp.MustCompile(`-[2-9]-android-apk-download`)
	bundleSuffixRe     = regexp.MustCompile(`-android-apk-download/?$`)
)

var (
	bundleTokens     = []string{"bundle", "aab", "app bundle"}
	monolithicTokens = []string{"apk", "android package"}
)

// classifyPackaging applies the suffix patterns first and the text tokens
// second; URL shape is the stronger signal on this catalog.
func classifyPackaging(c types.Candidate) packagingClass {
	urlLower := strings.ToLower(c.URL)
	combined := strings.ToLower(c.Text + " " + c.URL + " " + c.Context)

	if monolithicSuffixRe.MatchString(urlLower) {
		return packagingMonolithic
	}
	if bundleSuffixRe.MatchString(urlLower) {
		return packagingBundle
	}
	for _, token := range bundleTokens {
		if strings.Contains(combined, token) {
			return packagingBundle
		}
	}
	for _, token := range monolithicTokens {
		if strings.Contains(combined, token) {
			return packagingMonolithic
		}
	}
	return packagingUnclassified
}

// FilterPreferred reduces the candidates of one version page to at most one
// per architecture, preferring a monolithic package over a bundle over an
// unclassified candidate. Within a class the first candidate in page order
// wins. Single-candidate architectures pass through unchanged.
func FilterPreferred(candidates []types.Candidate) []types.Candidate {
	groups := make(map[types.Architecture][]types.Candidate)
	var order []types.Architecture
	for _, c := range candidates {
		if _, ok := groups[c.Arch]; !ok {
			order = append(order, c.Arch)
		}
		groups[c.Arch] = append(groups[c.Arch], c)
	}

	retained := make([]types.Candidate, 0, len(order))
	for _, arch := range order {
		group := groups[arch]
		if len(group) == 1 {
			retained = append(retained, group[0])
			continue
		}
		best := group[0]
		bestClass := classifyPackaging(best)
		for _, c := range group[1:] {
			if class := classifyPackaging(c); class > bestClass {
				best = c
				bestClass = class
			}
		}
		retained = append(retained, best)
	}
	return retained
}
