package main

import (
	"github.com/pkg/errors"

	"github.com/zshehov/rolling-in-the-diff/internal/logging"
)

// rootLogger resolves the logger each subcommand should use: the
// --log-level flag takes precedence over RDIFF_LOG_LEVEL, which
// logging.NewRoot already consults.
func rootLogger() (*logging.Logger, error) {
	if rootConfiguration.logLevel == "" {
		return logging.NewRoot(), nil
	}
	level, ok := logging.NameToLevel(rootConfiguration.logLevel)
	if !ok {
		return nil, errors.Errorf("invalid log level %q", rootConfiguration.logLevel)
	}
	return logging.NewWithLevel(level), nil
}
