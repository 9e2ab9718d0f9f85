package service

import (
	"fmt"
	"strings"
)

const recipeSystemPrompt = `You are a professional chef who writes recipes for home cooks.
Create one recipe that uses the ingredients the user provides. You may add common pantry staples.
Respond with a single JSON object and nothing else, using exactly these fields:
{
  "name": "short recipe title",
  "instructions": ["first step", "second step"],
  "article": "a short article in Markdown introducing the dish, its flavors and serving ideas",
  "additional_ingredients": ["any ingredient you added that the user did not list"]
}
Each instruction is one step without numbering. The article must not repeat the instructions.`

// BuildRecipePrompt asks for a recipe built from ingredients
func BuildRecipePrompt(ingredients []string) Prompt {
	var b strings.Builder
	b.WriteString("Create a recipe using these ingredients:\n")
	for _, name := range ingredients {
		fmt.Fprintf(&b, "- %s\n", name)
	}
	return Prompt{
		System: recipeSystemPrompt,
		User:   b.String(),
	}
}
