package detector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/carve/internal/adapters/detector"
	"go.trai.ch/carve/internal/core/domain"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		tty  bool
		ci   string
		want detector.OutputMode
	}{
		{"terminal", true, "", detector.ModeTUI},
		{"terminal with CI=false", true, "false", detector.ModeTUI},
		{"terminal with CI=true", true, "true", detector.ModeLinear},
		{"terminal with CI=1", true, "1", detector.ModeLinear},
		{"pipe", false, "", detector.ModeLinear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := map[string]string{"CI": tt.ci}
			got := detector.Detect(tt.tty, func(k string) string { return env[k] })
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectEnvironment_CI(t *testing.T) {
	t.Setenv("CI", "true")
	assert.Equal(t, detector.ModeLinear, detector.DetectEnvironment())
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		flag string
		want detector.OutputMode
	}{
		{"", detector.ModeAuto},
		{"auto", detector.ModeAuto},
		{"tui", detector.ModeTUI},
		{"linear", detector.ModeLinear},
		{"ci", detector.ModeLinear},
	}
	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			got, err := detector.ParseMode(tt.flag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := detector.ParseMode("fancy")
	assert.ErrorIs(t, err, domain.ErrUnknownOutputMode)
}

func TestResolveMode(t *testing.T) {
	assert.Equal(t, detector.ModeTUI, detector.ResolveMode(detector.ModeTUI, detector.ModeAuto))
	assert.Equal(t, detector.ModeLinear, detector.ResolveMode(detector.ModeTUI, detector.ModeLinear))
	assert.Equal(t, detector.ModeTUI, detector.ResolveMode(detector.ModeLinear, detector.ModeTUI))
	assert.Equal(t, "linear", detector.ModeLinear.String())
}
