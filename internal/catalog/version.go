// Package catalog parses an app's catalog listing: extracting normalized
// version identifiers from release links and enumerating candidate version
// pages from the catalog root.
package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

// FallbackVersion is returned when no version pattern matches. Callers treat
// it as invalid and discard the link.
const FallbackVersion = "0.0.0"

// versionRule is one (pattern, handler) pair of the extraction chain.
type versionRule struct {
	name   string
	re     *regexp.Regexp
	handle func(m []string) string
}

func dashesToDots(s string) string {
	return strings.ReplaceAll(s, "-", ".")
}

// versionRules is the ordered extraction table. Evaluation is strictly
// top-to-bottom, first match wins; the photo-library build rule must run
// before the generic dash-release rule or the trailing build number would
// leak into the version.
var versionRules = []versionRule{
	{
		name: "photos-build-number",
		re:   regexp.MustCompile(`(?:google-photos|photos)-(\d+)-(\d+)-(\d+)-\d+-release`),
		handle: func(m []string) string {
			return m[1] + "." + m[2] + "." + m[3]
		},
	},
	{
		name: "dash-run-release",
		re:   regexp.MustCompile(`-(\d+(?:-\d+)+)-release`),
		handle: func(m []string) string {
			return dashesToDots(m[1])
		},
	},
	{
		name: "slug-dotted-release",
		re:   regexp.MustCompile(`/[^/]*-(\d+(?:\.\d+)+)(?:-release)?`),
		handle: func(m []string) string {
			return m[1]
		},
	},
	{
		name: "bare-dotted",
		re:   regexp.MustCompile(`(\d+\.\d+\.\d+(?:\.\d+)*)`),
		handle: func(m []string) string {
			return m[1]
		},
	},
	{
		name: "bare-dash-run",
		re:   regexp.MustCompile(`-(\d+)-(\d+)-(\d+)(?:-(\d+))?-`),
		handle: func(m []string) string {
			parts := make([]string, 0, 4)
			for _, g := range m[1:] {
				if g != "" {
					parts = append(parts, g)
				}
			}
			return strings.Join(parts, ".")
		},
	},
}

// ExtractVersion normalizes a page-relative or absolute link into a version
// string. It is a pure function: the ordered rule table is applied
// top-to-bottom and the first matching rule produces the result. When
// nothing matches it returns FallbackVersion.
func ExtractVersion(href string) string {
	for _, rule := range versionRules {
		if m := rule.re.FindStringSubmatch(href); m != nil {
			return rule.handle(m)
		}
	}
	return FallbackVersion
}

// VersionsEqual compares two dotted versions ignoring trailing zero padding,
// so "7.50" equals "7.50.0".
func VersionsEqual(a, b string) bool {
	return strings.Join(trimZeroSegments(a), ".") == strings.Join(trimZeroSegments(b), ".")
}

func trimZeroSegments(v string) []string {
	parts := strings.Split(v, ".")
	for len(parts) > 1 && parts[len(parts)-1] == "0" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// majorComponent returns the leading version component, or -1 when it is not
// a plain integer.
func majorComponent(version string) int {
	head, _, _ := strings.Cut(version, ".")
	major, err := strconv.Atoi(head)
	if err != nil {
		return -1
	}
	return major
}
