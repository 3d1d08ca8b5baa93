package variants

import (
	"context"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/jonathan/autopatch/internal/fetch"
	"github.com/jonathan/autopatch/internal/types"
)

// downloadLinkRe matches the href shape of a binary-download-intent link on
// a version page.
var downloadLinkRe = regexp.MustCompile(`-apk-download/?$`)

// contextLimit caps the stored surrounding-context text per candidate.
const contextLimit = 100

// archKeywords anchors the precise discovery pass: text nodes containing one
// of these tokens mark a container likely to hold that architecture's
// download link.
var archKeywords = map[types.Architecture][]string{
	types.ArchArm:    {"armeabi-v7a", "armeabi"},
	types.ArchArm64:  {"arm64-v8a", "arm64"},
	types.ArchX86:    {"x86"},
	types.ArchX86_64: {"x86_64"},
	types.ArchAll:    {"universal", "noarch"},
}

// Discover fetches a version page and returns its download candidates with
// best-effort architecture tags. A fetch or parse failure yields an empty
// list, never an error.
func Discover(ctx context.Context, client *fetch.Client, pageURL string, requested []types.Architecture) []types.Candidate {
	doc, err := client.GetDocument(ctx, pageURL)
	if err != nil {
		log.FromContext(ctx).Debug("version page fetch failed", "url", pageURL, "err", err)
		return nil
	}
	return ParseCandidates(ctx, doc, requested)
}

// ParseCandidates runs both discovery passes over a parsed version page and
// unions their results with URL-based deduplication. The keyword-anchored
// pass is precise but brittle to layout variance; the exhaustive pass
// recovers candidates the anchors miss.
func ParseCandidates(ctx context.Context, doc *fetch.Document, requested []types.Architecture) []types.Candidate {
	logger := log.FromContext(ctx)
	seen := make(map[string]bool)
	var candidates []types.Candidate

	// Pass 1: keyword-anchored. Search the nearest two ancestor containers
	// of each architecture-labeled text node for a download-shaped link.
	for _, arch := range requested {
		for _, keyword := range archKeywords[arch] {
			kw := keyword
			holders := doc.FindByTextPredicate(func(text string) bool {
				return strings.Contains(strings.ToLower(text), kw)
			})
			for _, holder := range holders {
				for _, container := range []*fetch.Node{holder, holder.Parent()} {
					if container == nil {
						continue
					}
					for _, link := range container.FindAllByAttrRegex("a", "href", downloadLinkRe) {
						href, ok := link.Attr("href")
						if !ok || href == "" {
							continue
						}
						full := doc.ResolveURL(href)
						if seen[full] {
							continue
						}
						seen[full] = true
						candidates = append(candidates, types.Candidate{
							URL:     full,
							Text:    link.Text(),
							Context: truncate(container.Text(), contextLimit),
							Arch:    arch,
						})
						logger.Debug("anchored variant found", "arch", arch, "url", full)
						// One link per container; further matches in the
						// same container are packaging duplicates handled
						// by the preference filter.
						break
					}
				}
			}
		}
	}

	// Pass 2: exhaustive. Classify every download-shaped link on the page
	// from its combined text, URL, and row context.
	for _, link := range doc.FindAllByAttrRegex("a", "href", downloadLinkRe) {
		href, ok := link.Attr("href")
		if !ok || href == "" {
			continue
		}
		full := doc.ResolveURL(href)
		if seen[full] {
			continue
		}

		text := link.Text()
		contextText := ""
		if parent := link.Parent(); parent != nil {
			contextText = parent.Text()
		}
		if row := link.Closest("tr"); row != nil {
			contextText += " " + row.Text()
		}

		arch := Classify(text, href, contextText, requested)
		if arch == types.ArchUnknown && types.ContainsArch(requested, types.ArchAll) {
			// The only permitted default: an unlabeled download link counts
			// as universal when universal was requested.
			arch = types.ArchAll
		}
		if arch == types.ArchUnknown {
			logger.Debug("dropping unclassified variant", "url", full)
			continue
		}

		seen[full] = true
		candidates = append(candidates, types.Candidate{
			URL:     full,
			Text:    text,
			Context: truncate(contextText, contextLimit),
			Arch:    arch,
		})
		logger.Debug("variant found", "arch", arch, "url", full)
	}

	return candidates
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
