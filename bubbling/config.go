package bubbling

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds the page settings. Every field can be overridden through the
// external configuration object given to LoadConfig or Page.Configure, and
// through the environment with the BUBBLING_ prefix.
type Config struct {
	// ClassName is stamped on the document body at Init.
	ClassName string `mapstructure:"classname"`
	// ButtonClassName marks the root element of rich button widgets.
	ButtonClassName string `mapstructure:"button_classname"`
	// ExternalTarget is the target given to rel="external" anchors.
	ExternalTarget string `mapstructure:"external_target"`
	// RepaintDelay is the coalescing window for repaint fires.
	RepaintDelay time.Duration `mapstructure:"repaint_delay"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	PollRetries  int           `mapstructure:"poll_retries"`
	LogLevel     string        `mapstructure:"log_level"`
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("classname", "js")
	v.SetDefault("button_classname", "yui-button")
	v.SetDefault("external_target", "_blank")
	v.SetDefault("repaint_delay", 150*time.Millisecond)
	v.SetDefault("poll_interval", 40*time.Millisecond)
	v.SetDefault("poll_retries", 2000)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("BUBBLING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "unmarshal config")
	}
	if c.RepaintDelay < 0 {
		c.RepaintDelay = 0
	}
	return c, nil
}

// LoadConfig builds a Config from defaults, then overrides, then the
// environment. BUBBLING_* variables win over the overrides map.
func LoadConfig(overrides map[string]any) (Config, error) {
	v := newViper()
	if len(overrides) > 0 {
		if err := v.MergeConfigMap(overrides); err != nil {
			return Config{}, errors.Wrap(err, "merge config overrides")
		}
	}
	return decode(v)
}
