package main

import (
	"testing"

	"github.com/patchline/passforge/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestSetupLogging(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		level   string
		format  string
	}{
		{name: "valid console", level: "info", format: "console"},
		{name: "valid json debug", level: "debug", format: "json"},
		{name: "unknown level", level: "verbose", format: "console", wantErr: common.ErrInvalidConfig},
		{name: "unknown format", level: "info", format: "xml", wantErr: common.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			viper.Set("logging.level", tt.level)
			viper.Set("logging.format", tt.format)

			err := setupLogging()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRating(t *testing.T) {
	assert.NoError(t, validateRating(0))
	assert.NoError(t, validateRating(5))
	assert.NoError(t, validateRating(10))

	assert.ErrorIs(t, validateRating(-1), common.ErrMalformedInput)
	assert.ErrorIs(t, validateRating(11), common.ErrMalformedInput)
}
