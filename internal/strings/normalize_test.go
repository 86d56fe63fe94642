package strings

import "testing"

func TestNormalizeWhitespace(t *testing.T) {
	cases := map[string]string{
		"":                 "",
		"   ":              "",
		"a  b\tc":          "a b c",
		"  leading edge  ": "leading edge",
		"one\nline\ntwo":   "one line two",
	}
	for input, want := range cases {
		if got := NormalizeWhitespace(input); got != want {
			t.Errorf("NormalizeWhitespace(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeNewlines(t *testing.T) {
	if got := NormalizeNewlines("a\r\nb\rc\nd"); got != "a\nb\nc\nd" {
		t.Errorf("got %q", got)
	}
	if got := NormalizeNewlines(""); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestTrimTrailing(t *testing.T) {
	if got := TrimTrailingNewlines("body\n\r\n"); got != "body" {
		t.Errorf("TrimTrailingNewlines: got %q", got)
	}
	if got := TrimTrailingWhitespace("body \t\n"); got != "body" {
		t.Errorf("TrimTrailingWhitespace: got %q", got)
	}
}

func TestCaseNormalizers(t *testing.T) {
	if got := NormalizeUpperTrimSpace("  active "); got != "ACTIVE" {
		t.Errorf("upper: got %q", got)
	}
	if got := NormalizeLowerTrimSpace(" MarkDown "); got != "markdown" {
		t.Errorf("lower: got %q", got)
	}
}

func TestIsBlank(t *testing.T) {
	if !IsBlank("  \t\n") {
		t.Error("whitespace should be blank")
	}
	if IsBlank(" x ") {
		t.Error("non-empty should not be blank")
	}
}
