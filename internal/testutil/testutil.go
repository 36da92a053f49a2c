// Package testutil provides shared helpers for tests that touch the
// process-global viper configuration.
package testutil

import (
	"testing"

	"github.com/spf13/viper"
)

// ResetViper clears viper state and schedules another reset when the
// test completes, so tests cannot leak settings into each other.
func ResetViper(t *testing.T) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)
}

// SetViper resets viper and applies the given settings.
func SetViper(t *testing.T, settings map[string]any) {
	t.Helper()

	ResetViper(t)
	for key, value := range settings {
		viper.Set(key, value)
	}
}
