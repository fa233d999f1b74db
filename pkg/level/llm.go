package level

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Fepozopo/gridshot/pkg/board"
)

// openaiResponsesURL is the endpoint for the Responses API.
const openaiResponsesURL = "https://api.openai.com/v1/responses"

// maskCandidate is one model-proposed silhouette.
type maskCandidate struct {
	Mask  []string `json:"mask"`
	Notes string   `json:"notes"`
}

type candidatePayload struct {
	W          int             `json:"w"`
	H          int             `json:"h"`
	Candidates []maskCandidate `json:"candidates"`
	Notes      string          `json:"notes"`
}

// generateMaskCandidates asks the model provider for N candidate masks.
// Responses are cached on disk keyed by the SHA-256 of the canonical
// request body, so re-running a prompt costs nothing. The API key comes
// from OPENAI_API_KEY.
func generateMaskCandidates(req PromptRequest) ([]maskCandidate, error) {
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set (required for provider=openai)", board.ErrValidation)
	}

	body := map[string]any{
		"model": req.Model,
		"input": buildMaskPrompt(req),
		"text": map[string]any{
			"format": map[string]any{
				"type":   "json_schema",
				"name":   "mask_candidates",
				"strict": true,
				"schema": maskCandidateSchema(),
			},
		},
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	var cachePath string
	if req.CacheDir != "" {
		sum := sha256.Sum256(raw)
		cachePath = filepath.Join(req.CacheDir, hex.EncodeToString(sum[:])+".json")
		if b, err := os.ReadFile(cachePath); err == nil {
			if cands, err := parseCandidatePayload(b, req.W, req.H); err == nil {
				return cands, nil
			}
			// Corrupt cache entry: fall through and refetch.
		}
	}

	text, err := postResponses(raw, apiKey)
	if err != nil {
		return nil, err
	}

	cands, err := parseCandidatePayload([]byte(text), req.W, req.H)
	if err != nil {
		return nil, err
	}
	if cachePath != "" {
		if err := os.MkdirAll(req.CacheDir, 0o755); err == nil {
			_ = os.WriteFile(cachePath, []byte(text), 0o644)
		}
	}
	return cands, nil
}

// buildMaskPrompt is the instruction block sent to the model.
func buildMaskPrompt(req PromptRequest) string {
	return fmt.Sprintf(
		"Design %d candidate silhouette masks for a %dx%d grid puzzle.\n"+
			"Subject: %s\n"+
			"Each mask is exactly %d rows of exactly %d characters: '#' for filled, '.' for empty.\n"+
			"Prefer one solid recognizable silhouette with a small margin to the edges.",
		req.Candidates, req.W, req.H, req.Prompt, req.H, req.W)
}

// maskCandidateSchema stays inside the strict-mode supported subset; shape
// and characters are validated in code afterwards.
func maskCandidateSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"w": map[string]any{"type": "integer"},
			"h": map[string]any{"type": "integer"},
			"candidates": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"mask":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"notes": map[string]any{"type": "string"},
					},
					"required": []string{"mask", "notes"},
				},
			},
			"notes": map[string]any{"type": "string"},
		},
		"required": []string{"w", "h", "candidates", "notes"},
	}
}

// postResponses POSTs the request and extracts the output text.
func postResponses(body []byte, apiKey string) (string, error) {
	client := &http.Client{Timeout: 60 * time.Second}
	req, err := http.NewRequest(http.MethodPost, openaiResponsesURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("model request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed reading model response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	// Responses API: output is an array; message items hold content
	// entries whose type is "output_text".
	var parsed struct {
		Output []struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
		OutputText string `json:"output_text"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode model response: %w", err)
	}
	var parts []string
	for _, item := range parsed.Output {
		for _, c := range item.Content {
			if (c.Type == "output_text" || c.Type == "text") && c.Text != "" {
				parts = append(parts, c.Text)
			}
		}
	}
	if len(parts) > 0 {
		return strings.TrimSpace(strings.Join(parts, "\n")), nil
	}
	if parsed.OutputText != "" {
		return strings.TrimSpace(parsed.OutputText), nil
	}
	return "", fmt.Errorf("could not find output text in model response")
}

// parseCandidatePayload decodes the model JSON and normalizes every mask
// to exactly h rows of width w: extra rows are dropped, missing rows are
// appended empty, long rows truncated, short rows right-padded.
func parseCandidatePayload(data []byte, w, h int) ([]maskCandidate, error) {
	var payload candidatePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: candidate payload: %v", board.ErrValidation, err)
	}
	out := make([]maskCandidate, 0, len(payload.Candidates))
	for _, cand := range payload.Candidates {
		cand.Mask = normalizeMaskRows(cand.Mask, w, h)
		out = append(out, cand)
	}
	return out, nil
}

func normalizeMaskRows(rows []string, w, h int) []string {
	if len(rows) > h {
		rows = rows[:h]
	}
	blank := strings.Repeat(".", w)
	out := make([]string, 0, h)
	for _, r := range rows {
		if len(r) > w {
			r = r[:w]
		} else if len(r) < w {
			r += strings.Repeat(".", w-len(r))
		}
		out = append(out, r)
	}
	for len(out) < h {
		out = append(out, blank)
	}
	return out
}
