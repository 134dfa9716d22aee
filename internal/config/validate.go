package config

import (
	"errors"
	"fmt"
	"net"
	"regexp"
	"sort"
)

// Validate ensures the configuration is usable. Every problem found is
// reported in the returned error.
func (c *Config) Validate() error {
	var problems []error
	problems = append(problems, c.validateParser()...)
	problems = append(problems, c.validateAPI()...)
	problems = append(problems, c.validateLogging()...)
	return errors.Join(problems...)
}

func (c *Config) validateParser() []error {
	problems := ensurePositiveMap(map[string]int{
		"parser.poll_interval": c.Parser.PollInterval,
		"parser.batch_size":    c.Parser.BatchSize,
	})
	re, err := regexp.Compile(c.Parser.HeadingPattern)
	switch {
	case err != nil:
		problems = append(problems, fmt.Errorf("parser.heading_pattern: %w", err))
	case re.NumSubexp() < 2:
		problems = append(problems, errors.New("parser.heading_pattern must capture the season and the year"))
	}
	return problems
}

func (c *Config) validateAPI() []error {
	if _, _, err := net.SplitHostPort(c.API.Bind); err != nil {
		return []error{fmt.Errorf("api.bind %q: %w", c.API.Bind, err)}
	}
	return nil
}

func (c *Config) validateLogging() []error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return []error{fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)}
	}
}

func ensurePositiveMap(values map[string]int) []error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var problems []error
	for _, key := range keys {
		if values[key] <= 0 {
			problems = append(problems, fmt.Errorf("%s must be positive", key))
		}
	}
	return problems
}
