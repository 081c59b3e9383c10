package wcag

import (
	"errors"
	"strings"

	"golang.org/x/net/html"

	"github.com/a11yrank/a11yrank/internal/core/domain"
)

// Document is an immutable, queryable view of parsed markup. It is
// produced once per analysis and only read afterwards, so it is safe to
// share across the four evaluators running concurrently.
type Document struct {
	root *html.Node
	raw  string
}

// Element wraps one element node with read-only query helpers.
type Element struct {
	node *html.Node
}

// Parse builds a Document from raw markup. An empty or unparseable
// input yields domain.ErrParse; the orchestrator maps that to a zero
// score for every principle, which is distinct from "no applicable
// elements" (neutral).
func Parse(markup string) (*Document, error) {
	if strings.TrimSpace(markup) == "" {
		return nil, domain.WrapError(domain.ErrParse, "parse markup", errors.New("empty document"))
	}
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, domain.WrapError(domain.ErrParse, "parse markup", err)
	}
	return &Document{root: root, raw: markup}, nil
}

func (d *Document) Raw() string { return d.raw }

// All returns every descendant element matching one of the given tag
// names, in document order. With no names it returns all elements.
func (d *Document) All(tags ...string) []Element {
	want := tagSet(tags)
	var out []Element
	d.walk(func(n *html.Node) {
		if want == nil || want[n.Data] {
			out = append(out, Element{node: n})
		}
	})
	return out
}

// First returns the first element with the given tag name.
func (d *Document) First(tag string) (Element, bool) {
	elems := d.All(tag)
	if len(elems) == 0 {
		return Element{}, false
	}
	return elems[0], true
}

// WithAttr returns every element carrying the named attribute.
func (d *Document) WithAttr(name string) []Element {
	var out []Element
	d.walk(func(n *html.Node) {
		for _, a := range n.Attr {
			if a.Key == name {
				out = append(out, Element{node: n})
				return
			}
		}
	})
	return out
}

// Text returns the document's visible text with whitespace collapsed.
// Script and style contents are excluded.
func (d *Document) Text() string {
	var b strings.Builder
	collectText(d.root, &b)
	return strings.Join(strings.Fields(b.String()), " ")
}

func (d *Document) walk(fn func(*html.Node)) {
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			fn(n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(d.root)
}

func (e Element) Tag() string {
	if e.node == nil {
		return ""
	}
	return e.node.Data
}

// Attr returns the attribute value. Attribute names are already
// lower-cased by the parser.
func (e Element) Attr(name string) string {
	if e.node == nil {
		return ""
	}
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func (e Element) HasAttr(name string) bool {
	if e.node == nil {
		return false
	}
	for _, a := range e.node.Attr {
		if a.Key == name {
			return true
		}
	}
	return false
}

func (e Element) Attrs() []html.Attribute {
	if e.node == nil {
		return nil
	}
	return e.node.Attr
}

// Text returns the element's descendant text with whitespace collapsed.
func (e Element) Text() string {
	if e.node == nil {
		return ""
	}
	var b strings.Builder
	collectText(e.node, &b)
	return strings.Join(strings.Fields(b.String()), " ")
}

// Children returns direct child elements matching the given tags.
func (e Element) Children(tags ...string) []Element {
	if e.node == nil {
		return nil
	}
	want := tagSet(tags)
	var out []Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (want == nil || want[c.Data]) {
			out = append(out, Element{node: c})
		}
	}
	return out
}

// Find returns descendant elements matching the given tags.
func (e Element) Find(tags ...string) []Element {
	if e.node == nil {
		return nil
	}
	want := tagSet(tags)
	var out []Element
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (want == nil || want[c.Data]) {
				out = append(out, Element{node: c})
			}
			visit(c)
		}
	}
	visit(e.node)
	return out
}

func (e Element) Parent() (Element, bool) {
	if e.node == nil || e.node.Parent == nil || e.node.Parent.Type != html.ElementNode {
		return Element{}, false
	}
	return Element{node: e.node.Parent}, true
}

// HasAncestor reports whether any ancestor element has the given tag.
func (e Element) HasAncestor(tag string) bool {
	if e.node == nil {
		return false
	}
	for p := e.node.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == tag {
			return true
		}
	}
	return false
}

// rawText returns all descendant text including script/style contents,
// which Text deliberately skips.
func rawText(e Element) string {
	if e.node == nil {
		return ""
	}
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(e.node)
	return b.String()
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteByte(' ')
		return
	}
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

func tagSet(tags []string) map[string]bool {
	if len(tags) == 0 {
		return nil
	}
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[t] = true
	}
	return set
}

// strictContainers are elements whose start tags must be explicitly
// closed. Elements with optional end tags in HTML5 (p, li, td and
// friends) are deliberately excluded to avoid false positives.
var strictContainers = map[string]bool{
	"a": true, "article": true, "aside": true, "audio": true,
	"button": true, "div": true, "dl": true, "fieldset": true,
	"footer": true, "form": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "header": true, "iframe": true,
	"label": true, "main": true, "nav": true, "ol": true, "section": true,
	"select": true, "span": true, "table": true, "textarea": true,
	"ul": true, "video": true,
}

// TagBalance re-tokenizes the raw markup and counts strict container
// tags that never receive a matching close (or closes with no matching
// open). The parsed tree cannot show this: the parser repairs broken
// nesting silently.
func (d *Document) TagBalance() (total, unmatched int) {
	z := html.NewTokenizer(strings.NewReader(d.raw))
	var stack []string
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		name, _ := z.TagName()
		tag := string(name)
		if !strictContainers[tag] {
			continue
		}
		switch tt {
		case html.StartTagToken:
			total++
			stack = append(stack, tag)
		case html.EndTagToken:
			match := -1
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i] == tag {
					match = i
					break
				}
			}
			if match == -1 {
				unmatched++
				continue
			}
			unmatched += len(stack) - match - 1
			stack = stack[:match]
		}
	}
	unmatched += len(stack)
	return total, unmatched
}
