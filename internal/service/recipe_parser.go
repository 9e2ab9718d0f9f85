package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedResponse wraps every reason a model response cannot become a recipe
var ErrMalformedResponse = errors.New("malformed recipe response")

// ParsedRecipe is the structured form of a model response
type ParsedRecipe struct {
	Name                  string
	Instructions          []string
	Article               string
	AdditionalIngredients []string
}

type rawRecipe struct {
	Name                  string          `json:"name"`
	Instructions          json.RawMessage `json:"instructions"`
	Article               string          `json:"article"`
	AdditionalIngredients []string        `json:"additional_ingredients"`
}

// matches "Step 3:", "step 3 -", "3.", "3)", and bullet markers at the start of a step
var stepPrefix = regexp.MustCompile(`(?i)^\s*(?:step\s*\d+\s*[:.)-]?\s*|\d+[.):]\s+|[-*•]\s+)`)

// ParseRecipeResponse maps model output onto recipe fields. The JSON object may
// be bare, fenced in a code block, or surrounded by prose, and the prose may
// itself contain braces. The first object that decodes into a complete recipe wins.
func ParseRecipeResponse(content string) (*ParsedRecipe, error) {
	var firstErr error
	for offset := 0; offset < len(content); {
		i := strings.IndexByte(content[offset:], '{')
		if i < 0 {
			break
		}
		start := offset + i
		offset = start + 1

		var raw rawRecipe
		if err := json.NewDecoder(strings.NewReader(content[start:])).Decode(&raw); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: %v", ErrMalformedResponse, err)
			}
			continue
		}
		parsed, err := toParsedRecipe(raw)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		return parsed, nil
	}
	if firstErr == nil {
		firstErr = fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}
	return nil, firstErr
}

func toParsedRecipe(raw rawRecipe) (*ParsedRecipe, error) {
	instructions, err := parseInstructions(raw.Instructions)
	if err != nil {
		return nil, err
	}

	parsed := &ParsedRecipe{
		Name:         strings.TrimSpace(raw.Name),
		Instructions: instructions,
		Article:      strings.TrimSpace(raw.Article),
	}
	for _, extra := range raw.AdditionalIngredients {
		if extra = strings.TrimSpace(extra); extra != "" {
			parsed.AdditionalIngredients = append(parsed.AdditionalIngredients, extra)
		}
	}

	switch {
	case parsed.Name == "":
		return nil, fmt.Errorf("%w: name is empty", ErrMalformedResponse)
	case parsed.Article == "":
		return nil, fmt.Errorf("%w: article is empty", ErrMalformedResponse)
	case len(parsed.Instructions) == 0:
		return nil, fmt.Errorf("%w: no instructions", ErrMalformedResponse)
	}
	return parsed, nil
}

// parseInstructions accepts either a JSON array of steps or a single string
// with one step per line.
func parseInstructions(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var steps []string
	if err := json.Unmarshal(raw, &steps); err != nil {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, fmt.Errorf("%w: instructions must be a list of strings", ErrMalformedResponse)
		}
		steps = strings.Split(text, "\n")
	}

	out := make([]string, 0, len(steps))
	for _, step := range steps {
		step = strings.TrimSpace(stepPrefix.ReplaceAllString(step, ""))
		if step != "" {
			out = append(out, step)
		}
	}
	return out, nil
}
