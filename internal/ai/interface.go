package ai

import (
	"context"
	"errors"
)

// ErrEmptyResponse means the model answered without any usable text.
var ErrEmptyResponse = errors.New("empty model response")

// TextGenerator sends one prompt to a generative model and returns its raw text.
// Implementations can be swapped (Gemini today) without touching the trip pipeline.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
