// Package story produces marketing copy for products.
package story

import (
	"context"
	"fmt"
	"strings"

	"artisanhub/internal/config"
	applog "artisanhub/internal/log"
)

// Generator never fails: implementations degrade to fallback text.
type Generator interface {
	Generate(ctx context.Context, productName string) string
}

// Template is the offline generator.
type Template struct{}

func (Template) Generate(_ context.Context, productName string) string {
	name := strings.TrimSpace(productName)
	if name == "" {
		name = "piece"
	}
	return fmt.Sprintf("Every %s is shaped by hand, using techniques artisans have passed down for generations. "+
		"No two are exactly alike, so the one you bring home carries a little of the maker's story with it.", name)
}

// New picks the GenAI generator when an API key is configured.
func New(ctx context.Context, cfg config.Config) Generator {
	if cfg.GeminiAPIKey == "" {
		return Template{}
	}
	g, err := NewGenAI(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.StoryTimeout)
	if err != nil {
		applog.Error(nil, "story.client.fail", err, nil)
		return Template{}
	}
	return g
}
