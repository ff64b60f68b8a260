package tips

import (
	"strings"
	"testing"

	"github.com/spoorthylakshmi/wellnest/internal/breathing"
)

func TestMarkdownFillsPattern(t *testing.T) {
	md := Markdown(breathing.Pattern{Inhale: 5, Hold: 7, Exhale: 12})
	for _, want := range []string{"| Breathe in | 5 |", "| Hold | 7 |", "| Breathe out | 12 |"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
	if strings.Contains(md, "{{") {
		t.Error("markdown still has placeholders")
	}
}

func TestViewRendersAndCaches(t *testing.T) {
	m := New(breathing.DefaultPattern())
	m.style = "notty"
	out := m.View(80)
	if !strings.Contains(out, "Guided Breathing") {
		t.Fatalf("rendered view missing title:\n%s", out)
	}
	if !strings.Contains(out, "esc:close") {
		t.Error("rendered view missing help line")
	}

	first := m.rendered
	m.View(80)
	if m.rendered != first {
		t.Error("same width should reuse the cached render")
	}
	m.View(60)
	if m.width != 54 {
		t.Errorf("expected cache width 54 after resize, got %d", m.width)
	}
}
