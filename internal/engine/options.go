package engine

import (
	"fmt"

	"github.com/odvcencio/pyaudit/internal/config"
)

// FromConfig builds an engine for root from a resolved configuration, including the exclusion
// patterns of <root>/.pyauditignore.
func FromConfig(cfg config.Config, root string) (*Engine, error) {
	matcher, err := cfg.Matcher(root)
	if err != nil {
		return nil, fmt.Errorf("build exclusion matcher: %w", err)
	}
	return New(Options{
		Extensions:      cfg.Extensions,
		Ignore:          matcher,
		Thresholds:      cfg.RuleThresholds(),
		DuplicateWindow: cfg.Thresholds.DuplicateWindow,
		Workers:         cfg.Workers,
	}), nil
}
