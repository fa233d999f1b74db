package level

import (
	"errors"
	"testing"

	"github.com/Fepozopo/gridshot/pkg/board"
)

func TestRenderWordTemplateMask(t *testing.T) {
	m, err := RenderWordTemplateMask("cat", 16, 16, 1)
	if err != nil {
		t.Fatal(err)
	}
	w, h := m.Dims()
	if w != 16 || h != 16 {
		t.Fatalf("got %dx%d", w, h)
	}
	if m.Count() == 0 {
		t.Fatal("template scaled to nothing")
	}
}

func TestRenderWordTemplateUnknown(t *testing.T) {
	_, err := RenderWordTemplateMask("ZEBRA", 16, 16, 1)
	if !errors.Is(err, board.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTemplateWordsSorted(t *testing.T) {
	words := TemplateWords()
	if len(words) < 2 {
		t.Fatal("expected several templates")
	}
	for i := 1; i < len(words); i++ {
		if words[i-1] >= words[i] {
			t.Fatalf("template list not sorted: %v", words)
		}
	}
	if !HasTemplate("CAT") || !HasTemplate("cat") {
		t.Error("CAT template must resolve case-insensitively")
	}
	if HasTemplate("ZEBRA") {
		t.Error("ZEBRA should not exist")
	}
}
