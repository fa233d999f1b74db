package level

import (
	"strings"
	"testing"

	"github.com/Fepozopo/gridshot/pkg/board"
)

func TestFromPromptOfflineTemplateRouting(t *testing.T) {
	lvl, err := FromPrompt(PromptRequest{Prompt: "a cute cat!", W: 16, H: 16, Colors: 3, SlotsMode: board.SlotsRotate})
	if err != nil {
		t.Fatal(err)
	}
	src, ok := lvl.Meta["source"].(map[string]any)
	if !ok {
		t.Fatalf("missing source meta: %v", lvl.Meta)
	}
	if src["type"] != "word" || src["word"] != "cat" {
		t.Errorf("prompt did not route to the template: %v", src)
	}
}

func TestFromPromptOfflineTextFallback(t *testing.T) {
	lvl, err := FromPrompt(PromptRequest{Prompt: "OK", W: 24, H: 24, Colors: 3, SlotsMode: board.SlotsRotate})
	if err != nil {
		t.Fatal(err)
	}
	src := lvl.Meta["source"].(map[string]any)
	if src["type"] != "text" {
		t.Errorf("expected literal-text fallback, got %v", src)
	}
}

func TestFromPromptUnknownProvider(t *testing.T) {
	if _, err := FromPrompt(PromptRequest{Prompt: "x", Provider: "carrier-pigeon"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestPromptKeywords(t *testing.T) {
	got := promptKeywords("A cute CAT, maybe 2!")
	want := []string{"a", "cute", "cat", "maybe", "2"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("keyword %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestScoreMaskPrefersCompactSymmetric(t *testing.T) {
	compact, _ := board.ParseMask([]string{
		"........",
		"..####..",
		"..####..",
		"..####..",
		"........",
	})
	scattered, _ := board.ParseMask([]string{
		"#......#",
		"........",
		"...#....",
		"........",
		"#.....#.",
	})
	if scoreMask(compact, nil) <= scoreMask(scattered, nil) {
		t.Error("compact symmetric silhouette must outscore scattered specks")
	}
	empty, _ := board.ParseMask([]string{"...."})
	if scoreMask(empty, nil) >= scoreMask(scattered, nil) {
		t.Error("empty mask must score the minimum")
	}
}

func TestScoreMaskCatEars(t *testing.T) {
	ears, _ := board.ParseMask([]string{
		".#..#.",
		".####.",
		".####.",
		".####.",
		"......",
	})
	block, _ := board.ParseMask([]string{
		".####.",
		".####.",
		".####.",
		".####.",
		"......",
	})
	kw := []string{"cat"}
	if scoreMask(ears, kw) <= scoreMask(block, kw) {
		t.Error("two-bump silhouette must win the cat heuristic")
	}
}

func TestNormalizeMaskRows(t *testing.T) {
	rows := normalizeMaskRows([]string{"###", "#"}, 4, 3)
	if len(rows) != 3 {
		t.Fatalf("got %d rows", len(rows))
	}
	for i, r := range rows {
		if len(r) != 4 {
			t.Errorf("row %d width %d", i, len(r))
		}
	}
	if rows[0] != "###." || rows[1] != "#..." || rows[2] != "...." {
		t.Errorf("rows %v", rows)
	}
	// Long input truncates.
	rows = normalizeMaskRows([]string{"######", "a", "b", "c", "d"}, 2, 2)
	if len(rows) != 2 || rows[0] != "##" {
		t.Errorf("rows %v", rows)
	}
}

func TestParseCandidatePayload(t *testing.T) {
	data := `{"w":4,"h":2,"candidates":[{"mask":["##"],"notes":"n"}],"notes":""}`
	cands, err := parseCandidatePayload([]byte(data), 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(cands) != 1 {
		t.Fatalf("got %d candidates", len(cands))
	}
	if strings.Join(cands[0].Mask, "|") != "##..|...." {
		t.Errorf("mask %v", cands[0].Mask)
	}
}
