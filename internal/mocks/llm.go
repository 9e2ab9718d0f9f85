package mocks

import (
	"context"

	"github.com/pageza/alchemorsel-recipes/backend/internal/service"
	"github.com/stretchr/testify/mock"
)

// RecipeResponse is a well-formed model reply for the Steak and Garlic list
const RecipeResponse = "```json\n" + `{
  "name": "Garlic Butter Steak",
  "instructions": [
    "Step 1: Pat the steak dry and season with salt and black pepper.",
    "Step 2: Sear in a hot pan for 3 minutes per side.",
    "Step 3: Add butter and crushed garlic and baste for 1 minute.",
    "Step 4: Rest for 5 minutes before slicing."
  ],
  "article": "## Garlic Butter Steak\n\nA **weeknight classic** that needs only a hot pan.",
  "additional_ingredients": ["Butter", "Salt", "Black Pepper", "Saffron Dust"]
}` + "\n```"

// MockLLMService is a mock implementation of the language model client
type MockLLMService struct {
	mock.Mock
}

// Complete mocks the Complete method
func (m *MockLLMService) Complete(ctx context.Context, prompt service.Prompt) (*service.Completion, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Completion), args.Error(1)
}

// Model mocks the Model method
func (m *MockLLMService) Model() string {
	args := m.Called()
	return args.String(0)
}

// Completion wraps content as a completion from the test model
func Completion(content string) *service.Completion {
	return &service.Completion{
		Content:          content,
		Model:            "deepseek-chat",
		PromptTokens:     120,
		CompletionTokens: 240,
	}
}

// MockGenerationLimiter is a mock implementation of the recipe generation limiter
type MockGenerationLimiter struct {
	mock.Mock
}

// Admit mocks the Admit method
func (m *MockGenerationLimiter) Admit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
