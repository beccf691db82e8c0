package utils

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	html := RenderMarkdown("**bold** text")
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("Expected rendered markdown, got %s", html)
	}

	html = RenderMarkdown("hello <script>alert(1)</script>")
	if strings.Contains(html, "<script") {
		t.Errorf("Expected script to be stripped, got %s", html)
	}
	if !strings.Contains(html, "hello") {
		t.Errorf("Expected text to survive sanitizing, got %s", html)
	}
}

func TestSanitizeText(t *testing.T) {
	if got := SanitizeText("<b>hi</b>"); got != "hi" {
		t.Errorf("Expected markup stripped, got %q", got)
	}
	if got := SanitizeText("plain"); got != "plain" {
		t.Errorf("Expected plain text untouched, got %q", got)
	}
}
