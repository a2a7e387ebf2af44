package history

import (
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Config represents commit-history pipeline configuration.
// Workers > 1 opts into pooled detail fetching; the default is sequential,
// which keeps cache population order stable and reproducible.
type Config struct {
	PageLimit int `yaml:"page_limit" env:"HISTORY_PAGE_LIMIT"`
	Workers   int `yaml:"workers" env:"HISTORY_WORKERS"`
}

func (c *Config) PrepareAndValidate() error {
	c.PageLimit = lang.Check(c.PageLimit, defaultPageLimit)
	c.Workers = lang.Check(c.Workers, 1)

	if c.PageLimit < 1 || c.PageLimit > maxPageLimit {
		return errm.Errorf("page_limit must be between 1 and %d", maxPageLimit)
	}
	if c.Workers < 1 {
		return errm.New("workers must be positive")
	}

	return nil
}
