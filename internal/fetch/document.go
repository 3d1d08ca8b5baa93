package fetch

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is a narrow typed view over a parsed HTML page. Discovery
// components query it by tag, attribute pattern, or text predicate instead
// of depending on the underlying tree representation. Nodes are owned by the
// Document and are only valid while it is reachable.
type Document struct {
	doc  *goquery.Document
	base *url.URL
}

// Node is a single located element within a Document.
type Node struct {
	sel *goquery.Selection
}

// ParseDocument parses HTML into a Document. baseURL is used to resolve
// relative links; an empty or malformed baseURL leaves links unresolved.
func ParseDocument(html, baseURL string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}
	return &Document{doc: doc, base: base}, nil
}

// ResolveURL resolves href against the document's base URL and strips any
// fragment. Malformed hrefs come back unchanged.
func (d *Document) ResolveURL(href string) string {
	if i := strings.Index(href, "#"); i >= 0 {
		href = href[:i]
	}
	if d.base == nil {
		return href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	return d.base.ResolveReference(parsed).String()
}

func collect(sel *goquery.Selection) []*Node {
	nodes := make([]*Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, &Node{sel: s})
	})
	return nodes
}

func filterByAttrRegex(sel *goquery.Selection, attr string, re *regexp.Regexp) *goquery.Selection {
	return sel.FilterFunction(func(_ int, s *goquery.Selection) bool {
		value, ok := s.Attr(attr)
		return ok && re.MatchString(value)
	})
}

// FindAllByTag returns every element matching one of the given tag names, in
// document order.
func (d *Document) FindAllByTag(tags ...string) []*Node {
	return collect(d.doc.Find(strings.Join(tags, ", ")))
}

// FindAllByAttrRegex returns every element with the given tag whose attribute
// value matches the pattern.
func (d *Document) FindAllByAttrRegex(tag, attr string, re *regexp.Regexp) []*Node {
	return collect(filterByAttrRegex(d.doc.Find(tag), attr, re))
}

// FindByTextPredicate returns the elements that directly contain a text node
// for which pred returns true. Matching is against the raw text node content.
func (d *Document) FindByTextPredicate(pred func(string) bool) []*Node {
	var nodes []*Node
	d.doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		// Contents() includes text nodes; Not("*") drops element children.
		matched := false
		s.Contents().Not("*").Each(func(_ int, t *goquery.Selection) {
			if !matched && pred(t.Text()) {
				matched = true
			}
		})
		if matched {
			nodes = append(nodes, &Node{sel: s})
		}
	})
	return nodes
}

// FindFirstForm returns the first form element on the page, or nil.
func (d *Document) FindFirstForm() *Node {
	sel := d.doc.Find("form").First()
	if sel.Length() == 0 {
		return nil
	}
	return &Node{sel: sel}
}

// FindMetaRefreshTarget extracts the redirect target of a meta-refresh tag,
// or "" when the page has none.
func (d *Document) FindMetaRefreshTarget() string {
	var target string
	d.doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if equiv, _ := s.Attr("http-equiv"); !strings.EqualFold(equiv, "refresh") {
			return true
		}
		content, _ := s.Attr("content")
		lower := strings.ToLower(content)
		if i := strings.Index(lower, "url="); i >= 0 {
			target = strings.TrimSpace(content[i+len("url="):])
			return false
		}
		return true
	})
	return target
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	return n.sel.Attr(name)
}

// Text returns the node's combined text content, trimmed.
func (n *Node) Text() string {
	return strings.TrimSpace(n.sel.Text())
}

// Parent returns the node's parent element, or nil at the tree root.
func (n *Node) Parent() *Node {
	parent := n.sel.Parent()
	if parent.Length() == 0 {
		return nil
	}
	return &Node{sel: parent}
}

// Closest returns the nearest ancestor (including the node itself) matching
// the selector, or nil.
func (n *Node) Closest(selector string) *Node {
	sel := n.sel.Closest(selector)
	if sel.Length() == 0 {
		return nil
	}
	return &Node{sel: sel}
}

// FindAllByTag returns descendant elements matching one of the tag names.
func (n *Node) FindAllByTag(tags ...string) []*Node {
	return collect(n.sel.Find(strings.Join(tags, ", ")))
}

// FindAllByAttrRegex returns descendant elements with the given tag whose
// attribute value matches the pattern.
func (n *Node) FindAllByAttrRegex(tag, attr string, re *regexp.Regexp) []*Node {
	return collect(filterByAttrRegex(n.sel.Find(tag), attr, re))
}
