package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.Output.Stdout)
}

func TestValidateRejectsBadLevel(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadFormat(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "logfmt"
	assert.Error(t, cfg.Validate())
}

func TestValidateRequiresAnOutput(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Output.Stdout = false
	cfg.Output.File.Enabled = false
	assert.Error(t, cfg.Validate())
}

func TestValidateFileOutputNeedsPath(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Output.Stdout = false
	cfg.Output.File.Enabled = true
	cfg.Output.File.Path = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsEmptyFieldValues(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Fields = map[string]string{"service": ""}
	assert.Error(t, cfg.Validate())
}
