package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Providers.RequestTimeout <= 0 {
		return fmt.Errorf("providers.request_timeout must be > 0 (got %v)", c.Providers.RequestTimeout)
	}
	if c.Assets.DownloadTimeout <= 0 {
		return fmt.Errorf("assets.download_timeout must be > 0 (got %v)", c.Assets.DownloadTimeout)
	}
	if c.Assets.Root == "" {
		return fmt.Errorf("assets.root must not be empty")
	}
	if !strings.HasPrefix(c.Assets.PublicPrefix, "/") {
		return fmt.Errorf("assets.public_prefix must start with '/' (got %q)", c.Assets.PublicPrefix)
	}
	if c.Suggest.MinPrefixLen < 1 {
		return fmt.Errorf("suggest.min_prefix_len must be >= 1 (got %d)", c.Suggest.MinPrefixLen)
	}
	if c.Suggest.MaxResults < 1 {
		return fmt.Errorf("suggest.max_results must be >= 1 (got %d)", c.Suggest.MaxResults)
	}
	return nil
}
