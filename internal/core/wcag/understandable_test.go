package wcag

import (
	"testing"

	"github.com/a11yrank/a11yrank/internal/core/domain"
)

func TestHTMLLangDeclared(t *testing.T) {
	declared := evaluatePrinciple(t, domain.PrincipleUnderstandable, `<html lang="en"><body></body></html>`)
	if c := checkByID(t, declared, "html-lang"); !c.Passed {
		t.Fatalf("html-lang should pass, got %+v", c)
	}

	missing := evaluatePrinciple(t, domain.PrincipleUnderstandable, `<html><body><p>x</p></body></html>`)
	if c := checkByID(t, missing, "html-lang"); c.Passed {
		t.Fatalf("html-lang should fail without a lang attribute")
	}
}

func TestLangValueSyntax(t *testing.T) {
	score := evaluatePrinciple(t, domain.PrincipleUnderstandable, `<html lang="en-GB"><body>
		<p lang="fr">bonjour</p>
		<p lang="12!">broken</p>
	</body></html>`)

	c := checkByID(t, score, "lang-values")
	if c.TotalInstances != 3 || c.PassedInstances != 2 {
		t.Fatalf("lang-values = %d/%d, want 2/3", c.PassedInstances, c.TotalInstances)
	}
}

func TestLabelReferencesResolve(t *testing.T) {
	score := evaluatePrinciple(t, domain.PrincipleUnderstandable, `<html lang="en"><body><form>
		<label for="email">Email</label><input id="email" type="email">
		<label for="ghost">Ghost</label>
	</form></body></html>`)

	c := checkByID(t, score, "label-references")
	if c.TotalInstances != 2 || c.PassedInstances != 1 {
		t.Fatalf("label-references = %d/%d, want 1/2", c.PassedInstances, c.TotalInstances)
	}
}

func TestControlLabels(t *testing.T) {
	score := evaluatePrinciple(t, domain.PrincipleUnderstandable, `<html lang="en"><body><form>
		<label for="a">Name</label><input id="a" type="text">
		<label>Wrapped <input type="text"></label>
		<input type="search" aria-label="Search the site">
		<input type="text">
		<input type="hidden" name="csrf">
	</form></body></html>`)

	c := checkByID(t, score, "control-labels")
	if c.TotalInstances != 4 || c.PassedInstances != 3 {
		t.Fatalf("control-labels = %d/%d, want 3/4", c.PassedInstances, c.TotalInstances)
	}
}

func TestErrorSummaryRequiresValidationMarkup(t *testing.T) {
	plain := evaluatePrinciple(t, domain.PrincipleUnderstandable, `<html lang="en"><body><p>static page</p></body></html>`)
	if c := checkByID(t, plain, "error-summary"); c.Applicable() {
		t.Fatalf("error-summary should be inapplicable without validation markup")
	}

	validated := evaluatePrinciple(t, domain.PrincipleUnderstandable, `<html lang="en"><body><form>
		<input type="text" required>
	</form></body></html>`)
	if c := checkByID(t, validated, "error-summary"); c.Passed {
		t.Fatalf("error-summary should fail a validated form with no announcement region")
	}

	announced := evaluatePrinciple(t, domain.PrincipleUnderstandable, `<html lang="en"><body>
		<div role="alert"></div>
		<form><input type="text" required></form>
	</body></html>`)
	if c := checkByID(t, announced, "error-summary"); !c.Passed {
		t.Fatalf("error-summary should pass with a role=alert region")
	}
}

func TestContextChangeHandlers(t *testing.T) {
	score := evaluatePrinciple(t, domain.PrincipleUnderstandable, `<html lang="en"><body>
		<select onchange="this.form.submit()"><option>a</option></select>
		<input type="text" onfocus="highlight(this)">
	</body></html>`)

	c := checkByID(t, score, "context-change-handlers")
	if c.TotalInstances != 2 || c.PassedInstances != 1 {
		t.Fatalf("context-change-handlers = %d/%d, want 1/2", c.PassedInstances, c.TotalInstances)
	}
}
