package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/milk9111/townwalk/controller"
	"github.com/milk9111/townwalk/geom"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		cfg   logConfig
		debug bool
		info  bool
	}{
		{"production info", logConfig{Level: "info"}, false, true},
		{"development debug", logConfig{Development: true, Level: "debug"}, true, true},
		{"unknown level falls back to info", logConfig{Level: "loud"}, false, true},
		{"warn hides info", logConfig{Level: "warn"}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := newLogger(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.debug, l.Core().Enabled(zapcore.DebugLevel))
			assert.Equal(t, tt.info, l.Core().Enabled(zapcore.InfoLevel))
		})
	}
}

func TestStatusLine(t *testing.T) {
	pose := controller.AvatarPose{Position: geom.V3(1, 0, -2.5), Heading: 0.5}
	got := status(controller.FirstPerson, pose, -0.25, 59.6)
	assert.Equal(t, "first_person  pos=(1.000, 0.000, -2.500) heading=0.500  pitch=-0.25  fps=60", got)
}
