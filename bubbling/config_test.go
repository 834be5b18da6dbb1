package bubbling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, Config{
		ClassName:       "js",
		ButtonClassName: "yui-button",
		ExternalTarget:  "_blank",
		RepaintDelay:    150 * time.Millisecond,
		PollInterval:    40 * time.Millisecond,
		PollRetries:     2000,
		LogLevel:        "info",
	}, cfg)
}

func TestLoadConfigOverrides(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
		check     func(t *testing.T, cfg Config)
	}{
		{
			name:      "classname",
			overrides: map[string]any{"classname": "bus"},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "bus", cfg.ClassName)
				assert.Equal(t, "yui-button", cfg.ButtonClassName)
			},
		},
		{
			name:      "duration string",
			overrides: map[string]any{"repaint_delay": "1s"},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, time.Second, cfg.RepaintDelay)
			},
		},
		{
			name:      "negative delay",
			overrides: map[string]any{"repaint_delay": "-5ms"},
			check: func(t *testing.T, cfg Config) {
				assert.Zero(t, cfg.RepaintDelay)
			},
		},
		{
			name:      "unknown keys are ignored",
			overrides: map[string]any{"colour": "blue"},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "js", cfg.ClassName)
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadConfig(tc.overrides)
			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("BUBBLING_CLASSNAME", "from-env")
	t.Setenv("BUBBLING_POLL_RETRIES", "3")

	cfg, err := LoadConfig(map[string]any{"classname": "from-map"})
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.ClassName)
	assert.Equal(t, 3, cfg.PollRetries)
}

func TestLoadConfigInvalid(t *testing.T) {
	_, err := LoadConfig(map[string]any{"poll_retries": "lots"})
	assert.Error(t, err)
}
