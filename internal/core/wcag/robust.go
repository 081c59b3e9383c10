package wcag

import (
	"strings"
)

// robustChecks covers WCAG principle 4: markup must be interpretable by
// a wide range of user agents and assistive technologies.
var robustChecks = []check{
	{
		id:          "well-formed-markup",
		description: "Container tags are properly closed",
		wcagRef:     "4.1",
		severity:    "critical",
		run: func(doc *Document) (int, int, string) {
			total, unmatched := doc.TagBalance()
			passed := total - unmatched
			return passed, total, ratioDetail(max(passed, 0), total, "container tags balance")
		},
	},
	{
		id:          "unique-ids",
		description: "Element ids are unique",
		wcagRef:     "4.1.1",
		severity:    "critical",
		run: func(doc *Document) (int, int, string) {
			counts := make(map[string]int)
			carriers := doc.WithAttr("id")
			for _, el := range carriers {
				counts[el.Attr("id")]++
			}
			passed := 0
			for _, el := range carriers {
				if counts[el.Attr("id")] == 1 {
					passed++
				}
			}
			return passed, len(carriers), ratioDetail(passed, len(carriers), "ids are unique")
		},
	},
	{
		id:          "aria-roles",
		description: "role attributes use defined ARIA roles",
		wcagRef:     "4.1.2",
		severity:    "major",
		run: func(doc *Document) (int, int, string) {
			carriers := doc.WithAttr("role")
			passed := 0
			for _, el := range carriers {
				if roleTokensValid(el.Attr("role")) {
					passed++
				}
			}
			return passed, len(carriers), ratioDetail(passed, len(carriers), "role values are defined ARIA roles")
		},
	},
	{
		id:          "aria-references",
		description: "ARIA id references resolve",
		wcagRef:     "4.1.2",
		severity:    "major",
		run: func(doc *Document) (int, int, string) {
			ids := allIDs(doc)
			total := 0
			passed := 0
			for _, attr := range []string{"aria-labelledby", "aria-describedby", "aria-controls"} {
				for _, el := range doc.WithAttr(attr) {
					for _, token := range strings.Fields(el.Attr(attr)) {
						total++
						if ids[token] {
							passed++
						}
					}
				}
			}
			return passed, total, ratioDetail(passed, total, "ARIA references resolve to existing ids")
		},
	},
	{
		id:          "interactive-names",
		description: "Interactive elements expose an accessible name",
		wcagRef:     "4.1.2",
		severity:    "major",
		run: func(doc *Document) (int, int, string) {
			labelled := labelledIDs(doc)
			total := 0
			passed := 0
			for _, c := range doc.All("input", "select", "textarea", "button") {
				if c.Tag() == "input" && strings.EqualFold(c.Attr("type"), "hidden") {
					continue
				}
				total++
				if interactiveName(c, labelled) {
					passed++
				}
			}
			for _, a := range doc.All("a") {
				if !a.HasAttr("href") {
					continue
				}
				total++
				if a.Text() != "" || a.Attr("aria-label") != "" ||
					a.Attr("aria-labelledby") != "" || a.Attr("title") != "" {
					passed++
				}
			}
			return passed, total, ratioDetail(passed, total, "interactive elements have names")
		},
	},
	{
		id:          "table-structure",
		description: "Data tables declare headers or a caption",
		wcagRef:     "1.3.1",
		severity:    "major",
		run: func(doc *Document) (int, int, string) {
			tables := doc.All("table")
			passed := 0
			for _, t := range tables {
				if len(t.Find("th")) > 0 || len(t.Find("caption")) > 0 || len(t.Find("thead")) > 0 {
					passed++
				}
			}
			return passed, len(tables), ratioDetail(passed, len(tables), "tables are marked up as data tables")
		},
	},
	{
		id:          "status-messages",
		description: "Status containers are announced programmatically",
		wcagRef:     "4.1.3",
		severity:    "minor",
		run: func(doc *Document) (int, int, string) {
			if !hasStatusClasses(doc) {
				return 0, 0, "no status containers present"
			}
			if len(doc.WithAttr("aria-live")) > 0 || hasAnyRole(doc, "status", "alert", "log", "timer") {
				return 1, 1, "status containers use live regions"
			}
			return 0, 1, "status containers without aria-live or status roles"
		},
	},
}

// ariaRoles is the set of non-abstract WAI-ARIA 1.2 roles.
var ariaRoles = map[string]bool{
	"alert": true, "alertdialog": true, "application": true, "article": true,
	"banner": true, "button": true, "cell": true, "checkbox": true,
	"columnheader": true, "combobox": true, "complementary": true,
	"contentinfo": true, "definition": true, "dialog": true, "directory": true,
	"document": true, "feed": true, "figure": true, "form": true, "grid": true,
	"gridcell": true, "group": true, "heading": true, "img": true,
	"link": true, "list": true, "listbox": true, "listitem": true,
	"log": true, "main": true, "marquee": true, "math": true, "menu": true,
	"menubar": true, "menuitem": true, "menuitemcheckbox": true,
	"menuitemradio": true, "navigation": true, "none": true, "note": true,
	"option": true, "presentation": true, "progressbar": true, "radio": true,
	"radiogroup": true, "region": true, "row": true, "rowgroup": true,
	"rowheader": true, "scrollbar": true, "search": true, "searchbox": true,
	"separator": true, "slider": true, "spinbutton": true, "status": true,
	"switch": true, "tab": true, "table": true, "tablist": true,
	"tabpanel": true, "term": true, "textbox": true, "timer": true,
	"toolbar": true, "tooltip": true, "tree": true, "treegrid": true,
	"treeitem": true,
}

func roleTokensValid(value string) bool {
	tokens := strings.Fields(strings.ToLower(value))
	if len(tokens) == 0 {
		return false
	}
	for _, t := range tokens {
		if !ariaRoles[t] {
			return false
		}
	}
	return true
}

func allIDs(doc *Document) map[string]bool {
	ids := make(map[string]bool)
	for _, el := range doc.WithAttr("id") {
		ids[el.Attr("id")] = true
	}
	return ids
}

func interactiveName(c Element, labelled map[string]bool) bool {
	if controlHasLabel(c, labelled) {
		return true
	}
	if c.Tag() == "button" && c.Text() != "" {
		return true
	}
	return false
}

var statusClassHints = []string{"error", "status", "alert", "notification", "toast"}

func hasStatusClasses(doc *Document) bool {
	for _, el := range doc.WithAttr("class") {
		class := strings.ToLower(el.Attr("class"))
		for _, hint := range statusClassHints {
			if strings.Contains(class, hint) {
				return true
			}
		}
	}
	return false
}

func hasAnyRole(doc *Document, roles ...string) bool {
	for _, r := range roles {
		if hasRole(doc, r) {
			return true
		}
	}
	return false
}
