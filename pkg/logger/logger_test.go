package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSONWithTee(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var out, tee bytes.Buffer
	level := Setup(Options{Level: "debug", Format: "json", Out: &out, Tee: &tee})
	assert.Equal(t, zerolog.DebugLevel, level)

	log.Info().Str("camera_id", "webcam-0").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "webcam-0", entry["camera_id"])
	assert.Equal(t, out.String(), tee.String())
}

func TestSetup_InvalidLevelFallsBackToInfo(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var out bytes.Buffer
	level := Setup(Options{Level: "loud", Format: "json", Out: &out})
	assert.Equal(t, zerolog.InfoLevel, level)
	assert.Contains(t, out.String(), "Invalid log level")

	out.Reset()
	log.Debug().Msg("hidden")
	assert.Empty(t, out.String())
}
