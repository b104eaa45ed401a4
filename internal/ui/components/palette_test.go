package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestMatchingFiltersByPrefix(t *testing.T) {
	got := Matching("pomo:s", 5)
	if len(got) != 2 || got[0] != "pomo:start" || got[1] != "pomo:switch <work|rest>" {
		t.Fatalf("unexpected matches: %v", got)
	}
	if len(Matching("", 5)) != 5 {
		t.Fatalf("empty prefix must return the first five hints")
	}
	if len(Matching("nothing", 5)) != 0 {
		t.Fatalf("expected no matches")
	}
}

func TestPaletteSubmitAndCancel(t *testing.T) {
	p := NewPalette()
	_ = p.Open()
	p.input.SetValue("  deadline +15 min ")

	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if p.Visible() || cmd == nil {
		t.Fatalf("enter must close the palette and emit a command")
	}
	msg, ok := cmd().(PaletteSubmitMsg)
	if !ok || msg.Input != "deadline +15 min" {
		t.Fatalf("unexpected submit message: %#v", msg)
	}

	_ = p.Open()
	p, cmd = p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if p.Visible() {
		t.Fatalf("esc must close the palette")
	}
	if _, ok := cmd().(PaletteCancelMsg); !ok {
		t.Fatalf("expected cancel message")
	}
}
