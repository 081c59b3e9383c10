package wcag

import (
	"fmt"
	"strconv"
	"strings"
)

// operableChecks covers WCAG principle 2: interface components must be
// operable, keyboard access first.
var operableChecks = []check{
	{
		id:          "tabindex-range",
		description: "Explicit tabindex values stay within {0, -1}",
		wcagRef:     "2.4.3",
		severity:    "major",
		run: func(doc *Document) (int, int, string) {
			carriers := doc.WithAttr("tabindex")
			passed := 0
			for _, el := range carriers {
				v, err := strconv.Atoi(strings.TrimSpace(el.Attr("tabindex")))
				if err == nil && (v == 0 || v == -1) {
					passed++
				}
			}
			return passed, len(carriers), ratioDetail(passed, len(carriers), "tabindex values preserve natural focus order")
		},
	},
	{
		id:          "no-autofocus",
		description: "No element steals focus on load",
		wcagRef:     "2.4.3",
		severity:    "major",
		run: func(doc *Document) (int, int, string) {
			stealers := len(doc.WithAttr("autofocus"))
			if stealers == 0 {
				return 0, 0, "no autofocus attributes"
			}
			return 0, stealers, fmt.Sprintf("found %d elements with autofocus", stealers)
		},
	},
	{
		id:          "keyboard-handlers",
		description: "Click handlers have keyboard equivalents",
		wcagRef:     "2.1.1",
		severity:    "major",
		run: func(doc *Document) (int, int, string) {
			clickable := doc.WithAttr("onclick")
			passed := 0
			for _, el := range clickable {
				if nativelyInteractive[el.Tag()] ||
					el.HasAttr("onkeydown") || el.HasAttr("onkeypress") || el.HasAttr("onkeyup") {
					passed++
				}
			}
			return passed, len(clickable), ratioDetail(passed, len(clickable), "click targets are keyboard reachable")
		},
	},
	{
		id:          "meta-refresh",
		description: "No short-fuse automatic refresh or redirect",
		wcagRef:     "2.2.1",
		severity:    "major",
		run: func(doc *Document) (int, int, string) {
			total := 0
			passed := 0
			for _, m := range doc.All("meta") {
				if !strings.EqualFold(m.Attr("http-equiv"), "refresh") {
					continue
				}
				total++
				if refreshDelaySeconds(m.Attr("content")) >= minRefreshSeconds {
					passed++
				}
			}
			return passed, total, ratioDetail(passed, total, "refresh directives allow enough time")
		},
	},
	{
		id:          "page-title",
		description: "Page has a non-empty title",
		wcagRef:     "2.4.2",
		severity:    "critical",
		run: func(doc *Document) (int, int, string) {
			title, ok := doc.First("title")
			if ok && title.Text() != "" {
				return 1, 1, "page title present"
			}
			return 0, 1, "page title missing or empty"
		},
	},
	{
		id:          "bypass-blocks",
		description: "Repeated content can be skipped",
		wcagRef:     "2.4.1",
		severity:    "major",
		run: func(doc *Document) (int, int, string) {
			if countLinks(doc) < bypassLinkThreshold {
				return 0, 0, "too few links for bypass mechanisms to apply"
			}
			skips := 0
			for _, a := range doc.All("a") {
				if strings.HasPrefix(a.Attr("href"), "#") {
					skips++
				}
			}
			landmarks := len(doc.All("nav", "main", "header", "footer"))
			for _, el := range doc.WithAttr("role") {
				switch strings.ToLower(el.Attr("role")) {
				case "navigation", "main", "banner", "contentinfo":
					landmarks++
				}
			}
			if skips > 0 || landmarks > 0 {
				return 1, 1, fmt.Sprintf("%d skip links, %d landmarks", skips, landmarks)
			}
			return 0, 1, "no skip links or landmark elements"
		},
	},
	{
		id:          "link-purpose",
		description: "Link text describes the destination",
		wcagRef:     "2.4.4",
		severity:    "minor",
		run: func(doc *Document) (int, int, string) {
			total := 0
			passed := 0
			for _, a := range doc.All("a") {
				if !a.HasAttr("href") {
					continue
				}
				total++
				text := strings.ToLower(a.Text())
				if a.Attr("aria-label") != "" || a.Attr("title") != "" {
					passed++
					continue
				}
				if text != "" && !vagueLinkText[text] {
					passed++
				}
			}
			return passed, total, ratioDetail(passed, total, "links have descriptive text")
		},
	},
	{
		id:          "focus-visible",
		description: "Focus outlines are not suppressed without replacement",
		wcagRef:     "2.4.7",
		severity:    "minor",
		run: func(doc *Document) (int, int, string) {
			sources := styleSources(doc)
			if len(sources) == 0 {
				return 0, 0, "no stylesheet content to inspect"
			}
			total := 0
			passed := 0
			for _, src := range sources {
				if !strings.Contains(src, "outline:none") && !strings.Contains(src, "outline:0") {
					continue
				}
				total++
				if strings.Contains(src, ":focus") && strings.Contains(src, "box-shadow") {
					passed++
				}
			}
			return passed, total, ratioDetail(passed, total, "outline suppressions provide a focus replacement")
		},
	},
}

const (
	// Meta refresh below 20 hours fails 2.2.1 per the WCAG exception.
	minRefreshSeconds = 72000

	// Bypass mechanisms only matter once a page has enough repeated
	// link content to be worth skipping.
	bypassLinkThreshold = 5
)

var nativelyInteractive = map[string]bool{
	"a": true, "button": true, "input": true, "select": true, "textarea": true,
}

var vagueLinkText = map[string]bool{
	"click here": true, "read more": true, "more": true,
	"link": true, "here": true, "this": true,
}

func countLinks(doc *Document) int {
	n := 0
	for _, a := range doc.All("a") {
		if a.HasAttr("href") {
			n++
		}
	}
	return n
}

// refreshDelaySeconds parses the delay out of a meta refresh content
// attribute; malformed content reads as an immediate refresh.
func refreshDelaySeconds(content string) int {
	head := content
	if i := strings.IndexAny(content, ";,"); i >= 0 {
		head = content[:i]
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0
	}
	return seconds
}

// styleSources collects normalized CSS text from style elements and
// inline style attributes.
func styleSources(doc *Document) []string {
	var out []string
	for _, s := range doc.All("style") {
		if raw := rawText(s); strings.TrimSpace(raw) != "" {
			out = append(out, normalizeStyle(raw))
		}
	}
	for _, el := range doc.WithAttr("style") {
		out = append(out, normalizeStyle(el.Attr("style")))
	}
	return out
}
