package wcag

import (
	"fmt"
	"strings"
)

// perceivableChecks covers WCAG principle 1: content must be
// presentable to users in ways they can perceive.
var perceivableChecks = []check{
	{
		id:          "img-alt",
		description: "Images carry a text alternative",
		wcagRef:     "1.1.1",
		severity:    "critical",
		run: func(doc *Document) (int, int, string) {
			imgs := doc.All("img")
			passed := 0
			decorative := 0
			for _, img := range imgs {
				if !img.HasAttr("alt") {
					continue
				}
				passed++
				if strings.TrimSpace(img.Attr("alt")) == "" {
					decorative++
				}
			}
			return passed, len(imgs), fmt.Sprintf("%d/%d images have alt attributes (%d decorative)", passed, len(imgs), decorative)
		},
	},
	{
		id:          "media-alternatives",
		description: "Audio and video expose captions or transcripts",
		wcagRef:     "1.2.1-1.2.2",
		severity:    "major",
		run: func(doc *Document) (int, int, string) {
			media := doc.All("video", "audio")
			passed := 0
			for _, m := range media {
				if len(m.Find("track")) > 0 {
					passed++
					continue
				}
				if parent, ok := m.Parent(); ok && hasTranscriptLink(parent) {
					passed++
				}
			}
			return passed, len(media), ratioDetail(passed, len(media), "media elements have captions or transcripts")
		},
	},
	{
		id:          "heading-order",
		description: "Heading levels do not skip",
		wcagRef:     "1.3.1",
		severity:    "major",
		run: func(doc *Document) (int, int, string) {
			headings := doc.All("h1", "h2", "h3", "h4", "h5", "h6")
			passed := 0
			last := 0
			for _, h := range headings {
				level := int(h.Tag()[1] - '0')
				if level <= last+1 {
					passed++
				}
				last = level
			}
			return passed, len(headings), ratioDetail(passed, len(headings), "headings follow the hierarchy")
		},
	},
	{
		id:          "single-h1",
		description: "Page has exactly one top-level heading",
		wcagRef:     "1.3.1",
		severity:    "minor",
		run: func(doc *Document) (int, int, string) {
			if len(doc.All("h1", "h2", "h3", "h4", "h5", "h6")) == 0 {
				return 0, 0, "no headings found"
			}
			h1s := len(doc.All("h1"))
			if h1s == 1 {
				return 1, 1, "exactly one h1"
			}
			return 0, 1, fmt.Sprintf("found %d h1 elements, expected exactly 1", h1s)
		},
	},
	{
		id:          "list-structure",
		description: "Lists contain the expected item elements",
		wcagRef:     "1.3.1",
		severity:    "minor",
		run: func(doc *Document) (int, int, string) {
			lists := doc.All("ul", "ol", "dl")
			passed := 0
			for _, l := range lists {
				switch l.Tag() {
				case "dl":
					if len(l.Children("dt")) > 0 && len(l.Children("dd")) > 0 {
						passed++
					}
				default:
					if len(l.Children("li")) > 0 {
						passed++
					}
				}
			}
			return passed, len(lists), ratioDetail(passed, len(lists), "lists are properly structured")
		},
	},
	{
		id:          "sensory-instructions",
		description: "Instructions do not rely on sensory characteristics alone",
		wcagRef:     "1.3.3",
		severity:    "minor",
		run: func(doc *Document) (int, int, string) {
			text := strings.ToLower(doc.Text())
			hits := 0
			for _, phrase := range sensoryPhrases {
				hits += strings.Count(text, phrase)
			}
			if hits == 0 {
				return 0, 0, "no sensory-only instructions found"
			}
			return 0, hits, fmt.Sprintf("found %d sensory-only instruction phrases", hits)
		},
	},
	{
		id:          "colour-only-links",
		description: "Links are not distinguished by colour alone",
		wcagRef:     "1.4.1",
		severity:    "minor",
		run: func(doc *Document) (int, int, string) {
			total := 0
			passed := 0
			for _, a := range doc.All("a") {
				style := normalizeStyle(a.Attr("style"))
				if !strings.Contains(style, "color:") {
					continue
				}
				total++
				if !strings.Contains(style, "text-decoration:none") {
					passed++
				}
			}
			return passed, total, ratioDetail(passed, total, "colour-styled links keep a non-colour cue")
		},
	},
	{
		id:          "no-autoplay",
		description: "Media does not start playing automatically",
		wcagRef:     "1.4.2",
		severity:    "major",
		run: func(doc *Document) (int, int, string) {
			autoplay := 0
			for _, m := range doc.All("video", "audio") {
				if m.HasAttr("autoplay") {
					autoplay++
				}
			}
			if autoplay == 0 {
				return 0, 0, "no autoplaying media"
			}
			return 0, autoplay, fmt.Sprintf("found %d autoplaying media elements", autoplay)
		},
	},
}

var sensoryPhrases = []string{
	"click here", "red button", "green link", "left side", "right side",
	"round button", "square icon",
}

func hasTranscriptLink(parent Element) bool {
	for _, a := range parent.Find("a") {
		text := strings.ToLower(a.Text())
		if strings.Contains(text, "transcript") ||
			strings.Contains(text, "caption") ||
			strings.Contains(text, "subtitle") {
			return true
		}
	}
	return false
}

func normalizeStyle(style string) string {
	return strings.ToLower(strings.ReplaceAll(style, " ", ""))
}
