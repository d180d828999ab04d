package config

import (
	"strings"

	"github.com/spf13/viper"
)

// TierDefault is one delay-range row used to seed the payout tier table on
// first boot. Multiplier is in hundredths (100 = 1.0x).
type TierDefault struct {
	MinDelayMinutes int64 `mapstructure:"minDelayMinutes"`
	MaxDelayMinutes int64 `mapstructure:"maxDelayMinutes"`
	Multiplier      int64 `mapstructure:"multiplier"`
}

type TierConfig struct {
	Defaults []TierDefault `mapstructure:"defaults"`
}

// DefaultTierConfig is used when no tiers file is present. The last tier is
// the open-ended fallback: any delay beyond its upper bound still pays it.
func DefaultTierConfig() TierConfig {
	return TierConfig{
		Defaults: []TierDefault{
			{MinDelayMinutes: 120, MaxDelayMinutes: 240, Multiplier: 200},
			{MinDelayMinutes: 240, MaxDelayMinutes: 480, Multiplier: 300},
			{MinDelayMinutes: 480, MaxDelayMinutes: 1440, Multiplier: 500},
		},
	}
}

// LoadTierConfig reads tiers.yml from the usual config locations, falling
// back to DefaultTierConfig when the file is absent.
func LoadTierConfig() (TierConfig, error) {
	v := viper.New()

	v.SetConfigName("tiers")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/skycover/config")
	v.AddConfigPath("/etc/skycover")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SKYCOVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return TierConfig{}, err
		}
		return DefaultTierConfig(), nil
	}

	var cfg TierConfig
	if err := v.UnmarshalKey("tiers", &cfg); err != nil {
		return TierConfig{}, err
	}
	if len(cfg.Defaults) == 0 {
		return DefaultTierConfig(), nil
	}
	return cfg, nil
}
