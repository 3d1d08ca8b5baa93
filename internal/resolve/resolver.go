// Package resolve walks the catalog's multi-step download confirmation chain
// from a variant page to a final, directly fetchable binary URL.
package resolve

import (
	"context"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/jonathan/autopatch/internal/fetch"
	"github.com/jonathan/autopatch/internal/types"
)

var (
	downloadButtonClassRe = regexp.MustCompile(`(?i)downloadButton`)
	downloadAPKTextRe     = regexp.MustCompile(`(?i)download.*apk`)
	primaryButtonClassRe  = regexp.MustCompile(`(?i)(download|btn-primary)`)
	downloadHrefRe        = regexp.MustCompile(`download`)
	binaryShapedHrefRe    = regexp.MustCompile(`(?:download|\.apk)`)
)

// finalLinkRules are the terminal-page link shapes tried in order once the
// confirmation page itself is not the binary.
var finalLinkRules = []struct {
	re   *regexp.Regexp
	kind types.ContentKind
}{
	{re: regexp.MustCompile(`\.apk(\?.*)?$`), kind: types.ContentBinaryPackage},
	{re: regexp.MustCompile(`download\.php`), kind: types.ContentUnknown},
	{re: regexp.MustCompile(`getdownload`), kind: types.ContentUnknown},
}

// Resolve walks the confirmation chain starting at a variant page and
// returns the final download URL, or nil when the chain cannot be completed.
// Fetch failures at any hop resolve to nil; they never propagate.
func Resolve(ctx context.Context, client *fetch.Client, variantURL string) *types.ResolvedDownload {
	logger := log.FromContext(ctx)

	doc, err := client.GetDocument(ctx, variantURL)
	if err != nil {
		logger.Debug("variant page fetch failed", "url", variantURL, "err", err)
		return nil
	}

	action := findActionNode(doc)
	if action == nil {
		logger.Debug("no download action on variant page", "url", variantURL)
		return nil
	}

	hopURL := nextHopURL(doc, action, variantURL)
	if hopURL == "" {
		logger.Debug("no navigable next hop", "url", variantURL)
		return nil
	}

	result, err := client.Get(ctx, hopURL)
	if err != nil {
		logger.Debug("confirmation hop fetch failed", "url", hopURL, "err", err)
		return nil
	}

	if isBinaryResponse(result) {
		return &types.ResolvedDownload{URL: result.FinalURL, Kind: types.ContentBinaryPackage}
	}

	confirm, err := fetch.ParseDocument(result.HTML, result.FinalURL)
	if err != nil {
		logger.Debug("confirmation page parse failed", "url", hopURL, "err", err)
		return nil
	}

	for _, rule := range finalLinkRules {
		for _, link := range confirm.FindAllByAttrRegex("a", "href", rule.re) {
			if href, ok := link.Attr("href"); ok && href != "" {
				return &types.ResolvedDownload{URL: confirm.ResolveURL(href), Kind: rule.kind}
			}
		}
	}

	if target := confirm.FindMetaRefreshTarget(); target != "" {
		return &types.ResolvedDownload{URL: confirm.ResolveURL(target), Kind: types.ContentUnknown}
	}

	logger.Debug("no final download link found", "url", hopURL)
	return nil
}

// findActionNode locates the primary download action using the ordered
// selector priority: explicit download-button class, "download apk" link
// text, generic primary-button class, then any link with "download" in its
// href.
func findActionNode(doc *fetch.Document) *fetch.Node {
	if nodes := doc.FindAllByAttrRegex("a", "class", downloadButtonClassRe); len(nodes) > 0 {
		return nodes[0]
	}
	for _, link := range doc.FindAllByTag("a") {
		if downloadAPKTextRe.MatchString(link.Text()) {
			return link
		}
	}
	if nodes := doc.FindAllByAttrRegex("a", "class", primaryButtonClassRe); len(nodes) > 0 {
		return nodes[0]
	}
	if nodes := doc.FindAllByAttrRegex("a", "href", downloadHrefRe); len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

// nextHopURL turns the action element into the next URL to fetch. A
// same-page fragment has no navigable href; in that case the page's form
// action is the real confirmation endpoint, and failing that, any other
// binary-shaped link serves as a fallback hop.
func nextHopURL(doc *fetch.Document, action *fetch.Node, pageURL string) string {
	href, ok := action.Attr("href")
	if ok && href != "" && !strings.HasPrefix(href, "#") {
		return doc.ResolveURL(href)
	}

	if form := doc.FindFirstForm(); form != nil {
		if formAction, ok := form.Attr("action"); ok && formAction != "" {
			return doc.ResolveURL(formAction)
		}
		// Form without an action submits to the page itself.
		return pageURL
	}

	for _, link := range doc.FindAllByAttrRegex("a", "href", binaryShapedHrefRe) {
		other, ok := link.Attr("href")
		if !ok || other == "" || strings.HasPrefix(other, "#") {
			continue
		}
		return doc.ResolveURL(other)
	}
	return ""
}

func isBinaryResponse(result *fetch.Result) bool {
	contentType := strings.ToLower(result.ContentType)
	return strings.Contains(contentType, "application/vnd.android.package-archive") ||
		strings.Contains(contentType, "application/octet-stream") ||
		strings.Contains(result.ContentDisposition, ".apk") ||
		strings.HasSuffix(result.FinalURL, ".apk")
}
