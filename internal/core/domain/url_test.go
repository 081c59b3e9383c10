package domain

import "testing"

func TestNormalizeURLCanonicalForms(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"HTTPS://Example.COM/", "https://example.com"},
		{"https://example.com:443/path/", "https://example.com/path"},
		{"http://example.com:80", "http://example.com"},
		{"http://example.com:8080/a", "http://example.com:8080/a"},
		{"example.com/page", "https://example.com/page"},
		{"https://example.com/page#section", "https://example.com/page"},
		{"https://example.com/page?q=1", "https://example.com/page?q=1"},
	}
	for _, tc := range cases {
		got, err := NormalizeURL(tc.in)
		if err != nil {
			t.Fatalf("NormalizeURL(%q) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizeURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeURLEquivalentFormsShareOneKey(t *testing.T) {
	a, err := NormalizeURL("HTTP://Example.com:80/blog/")
	if err != nil {
		t.Fatalf("NormalizeURL() error = %v", err)
	}
	b, err := NormalizeURL("http://example.com/blog")
	if err != nil {
		t.Fatalf("NormalizeURL() error = %v", err)
	}
	if a != b {
		t.Fatalf("expected identical keys, got %q and %q", a, b)
	}
}

func TestNormalizeURLRejectsInvalidInput(t *testing.T) {
	for _, in := range []string{"", "   ", "ftp://example.com", "https://"} {
		if _, err := NormalizeURL(in); err == nil {
			t.Fatalf("NormalizeURL(%q) expected error", in)
		} else if !IsKind(err, ErrInvalidInput) {
			t.Fatalf("NormalizeURL(%q) expected ErrInvalidInput, got %v", in, err)
		}
	}
}
