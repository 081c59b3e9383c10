package wcag

import (
	"fmt"
	"regexp"
	"strings"
)

// understandableChecks covers WCAG principle 3: information and
// operation of the interface must be understandable.
var understandableChecks = []check{
	{
		id:          "html-lang",
		description: "Document declares its language",
		wcagRef:     "3.1.1",
		severity:    "critical",
		run: func(doc *Document) (int, int, string) {
			root, ok := doc.First("html")
			if ok && strings.TrimSpace(root.Attr("lang")) != "" {
				return 1, 1, fmt.Sprintf("page language declared: %s", root.Attr("lang"))
			}
			return 0, 1, "missing lang attribute on <html>"
		},
	},
	{
		id:          "lang-values",
		description: "Language declarations use valid BCP 47 syntax",
		wcagRef:     "3.1.2",
		severity:    "minor",
		run: func(doc *Document) (int, int, string) {
			carriers := doc.WithAttr("lang")
			passed := 0
			for _, el := range carriers {
				if langTagPattern.MatchString(strings.TrimSpace(el.Attr("lang"))) {
					passed++
				}
			}
			return passed, len(carriers), ratioDetail(passed, len(carriers), "lang attributes are well-formed")
		},
	},
	{
		id:          "label-references",
		description: "Label for attributes resolve to a form control",
		wcagRef:     "3.3.2",
		severity:    "critical",
		run: func(doc *Document) (int, int, string) {
			ids := controlIDs(doc)
			total := 0
			passed := 0
			for _, label := range doc.All("label") {
				target := label.Attr("for")
				if target == "" {
					continue
				}
				total++
				if ids[target] {
					passed++
				}
			}
			return passed, total, ratioDetail(passed, total, "label references resolve")
		},
	},
	{
		id:          "control-labels",
		description: "Form controls have an accessible label",
		wcagRef:     "3.3.2",
		severity:    "major",
		run: func(doc *Document) (int, int, string) {
			labelled := labelledIDs(doc)
			controls := visibleControls(doc)
			passed := 0
			for _, c := range controls {
				if controlHasLabel(c, labelled) {
					passed++
				}
			}
			return passed, len(controls), ratioDetail(passed, len(controls), "form controls are labelled")
		},
	},
	{
		id:          "error-summary",
		description: "Validated forms expose an error announcement region",
		wcagRef:     "3.3.1",
		severity:    "major",
		run: func(doc *Document) (int, int, string) {
			if !hasValidationMarkup(doc) {
				return 0, 0, "no validation markup present"
			}
			if len(doc.WithAttr("aria-live")) > 0 || hasRole(doc, "alert") || hasErrorClass(doc) {
				return 1, 1, "error announcement region present"
			}
			return 0, 1, "validated form without an error announcement region"
		},
	},
	{
		id:          "context-change-handlers",
		description: "Focus and input do not trigger navigation",
		wcagRef:     "3.2.1-3.2.2",
		severity:    "major",
		run: func(doc *Document) (int, int, string) {
			var carriers []Element
			seen := map[Element]bool{}
			for _, attr := range []string{"onfocus", "onchange"} {
				for _, el := range doc.WithAttr(attr) {
					if !seen[el] {
						seen[el] = true
						carriers = append(carriers, el)
					}
				}
			}
			passed := 0
			for _, el := range carriers {
				handler := strings.ToLower(el.Attr("onfocus") + " " + el.Attr("onchange"))
				if !strings.Contains(handler, "submit") && !strings.Contains(handler, "location") {
					passed++
				}
			}
			return passed, len(carriers), ratioDetail(passed, len(carriers), "handlers avoid context changes")
		},
	},
	{
		id:          "consistent-navigation",
		description: "Link-heavy pages expose a navigation landmark",
		wcagRef:     "3.2.3",
		severity:    "minor",
		run: func(doc *Document) (int, int, string) {
			if countLinks(doc) < bypassLinkThreshold {
				return 0, 0, "too few links for navigation landmarks to apply"
			}
			if len(doc.All("nav")) > 0 || hasRole(doc, "navigation") {
				return 1, 1, "navigation landmark present"
			}
			return 0, 1, "no navigation landmark on a link-heavy page"
		},
	},
	{
		id:          "abbr-titles",
		description: "Abbreviations carry an expansion",
		wcagRef:     "3.1.4",
		severity:    "minor",
		run: func(doc *Document) (int, int, string) {
			abbrs := doc.All("abbr", "acronym")
			passed := 0
			for _, a := range abbrs {
				if strings.TrimSpace(a.Attr("title")) != "" {
					passed++
				}
			}
			return passed, len(abbrs), ratioDetail(passed, len(abbrs), "abbreviations have expansions")
		},
	},
}

var langTagPattern = regexp.MustCompile(`^[a-zA-Z]{2,3}(-[a-zA-Z0-9]+)*$`)

var controlTags = []string{"input", "select", "textarea", "button", "meter", "progress", "output"}

func controlIDs(doc *Document) map[string]bool {
	ids := make(map[string]bool)
	for _, c := range doc.All(controlTags...) {
		if id := c.Attr("id"); id != "" {
			ids[id] = true
		}
	}
	return ids
}

// labelledIDs collects control ids referenced by a label[for].
func labelledIDs(doc *Document) map[string]bool {
	ids := make(map[string]bool)
	for _, label := range doc.All("label") {
		if target := label.Attr("for"); target != "" {
			ids[target] = true
		}
	}
	return ids
}

// visibleControls returns the form controls a user interacts with;
// hidden inputs and submit-style buttons name themselves via value.
func visibleControls(doc *Document) []Element {
	var out []Element
	for _, c := range doc.All("input", "select", "textarea") {
		if c.Tag() == "input" && strings.EqualFold(c.Attr("type"), "hidden") {
			continue
		}
		out = append(out, c)
	}
	return out
}

func controlHasLabel(c Element, labelled map[string]bool) bool {
	if id := c.Attr("id"); id != "" && labelled[id] {
		return true
	}
	if c.HasAncestor("label") {
		return true
	}
	if c.Attr("aria-label") != "" || c.Attr("aria-labelledby") != "" || c.Attr("title") != "" {
		return true
	}
	if c.Tag() == "input" {
		switch strings.ToLower(c.Attr("type")) {
		case "submit", "button", "reset", "image":
			return c.Attr("value") != "" || c.Attr("alt") != ""
		case "", "text", "email", "password", "search", "tel", "url", "number":
			return c.Attr("placeholder") != ""
		}
	}
	return false
}

func hasValidationMarkup(doc *Document) bool {
	return len(doc.WithAttr("required")) > 0 ||
		len(doc.WithAttr("aria-invalid")) > 0 ||
		len(doc.WithAttr("pattern")) > 0
}

func hasRole(doc *Document, role string) bool {
	for _, el := range doc.WithAttr("role") {
		for _, token := range strings.Fields(strings.ToLower(el.Attr("role"))) {
			if token == role {
				return true
			}
		}
	}
	return false
}

func hasErrorClass(doc *Document) bool {
	for _, el := range doc.WithAttr("class") {
		if strings.Contains(strings.ToLower(el.Attr("class")), "error") {
			return true
		}
	}
	return false
}
