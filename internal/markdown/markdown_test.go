package markdown

import (
	"strings"
	"testing"
)

func TestRenderEmpty(t *testing.T) {
	if got := Render(80, "   \n"); got != "" {
		t.Errorf("blank input rendered %q", got)
	}
}

func TestRenderList(t *testing.T) {
	output := Render(80, "# Plan\n\n- one\n- two\n")

	if !strings.Contains(output, "Plan") {
		t.Errorf("missing heading: %q", output)
	}
	if !strings.Contains(output, "- one") || !strings.Contains(output, "- two") {
		t.Errorf("missing list items: %q", output)
	}
	if strings.HasSuffix(output, "\n") {
		t.Errorf("trailing newline not trimmed: %q", output)
	}
}

func TestRenderNormalizesLineEndings(t *testing.T) {
	output := Render(80, "a\r\nb\r\n")
	if strings.Contains(output, "\r") {
		t.Errorf("carriage returns leaked: %q", output)
	}
}

func TestRenderDefaultWidth(t *testing.T) {
	if got := Render(0, "hello"); got == "" {
		t.Error("zero width rendered nothing")
	}
}
