package config

import (
	"strings"

	"github.com/spf13/viper"
)

// ViperConfig layers bound command line flags over ASSETPACK_* environment
// variables over an optional config file (any format viper reads).
type ViperConfig struct {
	v          *viper.Viper
	configFile string
}

func NewViperConfig(configFile string) *ViperConfig {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return &ViperConfig{v: v, configFile: configFile}
}

// Viper exposes the underlying instance so callers can bind flags.
func (c *ViperConfig) Viper() *viper.Viper {
	return c.v
}

func (c *ViperConfig) Load() error {
	if c.configFile == "" {
		return nil
	}

	c.v.SetConfigFile(c.configFile)
	return c.v.ReadInConfig()
}

func (c *ViperConfig) GetKey(key string) string {
	return c.v.GetString(key)
}

func (c *ViperConfig) MustGetKey(key string) string {
	return mustGetKey(c, key)
}

func (c *ViperConfig) GetKeyWithDefault(key, defaultValue string) string {
	return keyWithDefault(c, key, defaultValue)
}

func (c *ViperConfig) GetIntKeyWithDefault(key string, defaultValue int) int {
	return intKeyWithDefault(c, key, defaultValue)
}

func (c *ViperConfig) GetFloatKeyWithDefault(key string, defaultValue float64) float64 {
	return floatKeyWithDefault(c, key, defaultValue)
}

func (c *ViperConfig) GetBoolKeyWithDefault(key string, defaultValue bool) bool {
	return boolKeyWithDefault(c, key, defaultValue)
}
