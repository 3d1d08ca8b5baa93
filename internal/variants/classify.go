// Package variants finds architecture-specific download candidates on a
// version page, classifies them, and filters same-architecture duplicates by
// packaging preference.
package variants

import (
	"regexp"
	"strings"

	"github.com/jonathan/autopatch/internal/types"
)

// archSynonyms maps an architecture to the tokens that identify it in link
// text, URLs, and surrounding markup. Entries are ordered most-specific
// first; the bare "x86" entry additionally requires the absence of "x86_64"
// so the 64-bit variant never misclassifies as 32-bit.
type archSynonyms struct {
	arch    types.Architecture
	tokens  []string
	exclude string
}

var synonymTable = []archSynonyms{
	{arch: types.ArchArm64, tokens: []string{"arm64-v8a", "arm64v8a", "arm64", "aarch64"}},
	{arch: types.ArchArm, tokens: []string{"armeabi-v7a", "armeabiv7a", "armeabi", "armv7a", "armv7", "arm-v7a"}},
	{arch: types.ArchX86_64, tokens: []string{"x86_64", "x8664", "x86-64", "x64", "amd64"}},
	{arch: types.ArchX86, tokens: []string{"x86"}, exclude: "x86_64"},
	{arch: types.ArchAll, tokens: []string{"universal", "noarch", "all-arch"}},
}

// archPattern is the regex fallback tier of the classifier: word-boundary
// matches over the combined signal text.
type archPattern struct {
	arch types.Architecture
	re   *regexp.Regexp
}

var patternTable = []archPattern{
	{arch: types.ArchArm64, re: regexp.MustCompile(`\b(arm64|aarch64)\b`)},
	{arch: types.ArchArm, re: regexp.MustCompile(`\b(armeabi|armv7|arm32)\b`)},
	{arch: types.ArchX86_64, re: regexp.MustCompile(`\b(x86_64|x64|amd64)\b`)},
	{arch: types.ArchAll, re: regexp.MustCompile(`\b(universal|noarch)\b`)},
}

// Classify labels a download link with a target architecture using, in
// order: exact architecture string in the URL, synonym containment in the
// combined lowercase signal, then word-boundary regex patterns. Only
// architectures in requested are considered. It returns ArchUnknown when no
// explicit signal matches; callers must not substitute a default beyond the
// universal fallback rule applied during discovery.
func Classify(text, href, context string, requested []types.Architecture) types.Architecture {
	urlLower := strings.ToLower(href)
	combined := strings.ToLower(text + " " + href + " " + context)

	for _, entry := range synonymTable {
		if !types.ContainsArch(requested, entry.arch) {
			continue
		}
		if entry.exclude != "" && strings.Contains(urlLower, entry.exclude) {
			continue
		}
		if strings.Contains(urlLower, string(entry.arch)) {
			return entry.arch
		}
	}

	for _, entry := range synonymTable {
		if !types.ContainsArch(requested, entry.arch) {
			continue
		}
		if entry.exclude != "" && strings.Contains(combined, entry.exclude) {
			continue
		}
		for _, token := range entry.tokens {
			if strings.Contains(combined, token) {
				return entry.arch
			}
		}
	}

	for _, entry := range patternTable {
		if !types.ContainsArch(requested, entry.arch) {
			continue
		}
		if entry.re.MatchString(combined) {
			return entry.arch
		}
	}

	return types.ArchUnknown
}
