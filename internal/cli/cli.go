// Package cli holds the process-level glue of the monitor binary that does
// not touch OpenCV.
package cli

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"epi-monitor-go/internal/models"
)

// ExitCode maps the result of a run to the process status. The handled stop
// conditions are not failures.
func ExitCode(err error) int {
	switch {
	case err == nil:
		log.Info().Msg("Monitor finished")
		return 0
	case errors.Is(err, models.ErrNoTargetClasses), errors.Is(err, models.ErrCameraUnavailable):
		return 0
	default:
		log.Error().Err(err).Msg("Monitor failed")
		return 1
	}
}

// EnvFileFromArgs finds --env before the flag set exists, since the .env file
// provides the flag defaults.
func EnvFileFromArgs(args []string) string {
	for i, a := range args {
		if a == "--" {
			break
		}
		name, value, hasValue := strings.Cut(strings.TrimLeft(a, "-"), "=")
		if !strings.HasPrefix(a, "-") || name != "env" {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
