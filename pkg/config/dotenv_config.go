package config

import (
	"os"

	"github.com/subosito/gotenv"
)

// DotenvConfig reads keys from the environment after loading DotenvPath into
// it. Keys are looked up under their EnvName.
type DotenvConfig struct {
	DotenvPath string
}

func NewDotenvConfig(path string) *DotenvConfig {
	return &DotenvConfig{DotenvPath: path}
}

// Load reads DotenvPath into the environment. Variables already set in the
// environment win over the file. An empty DotenvPath is not an error; the
// config then reads the environment as-is.
func (c *DotenvConfig) Load() error {
	if c.DotenvPath == "" {
		return nil
	}

	return gotenv.Load(c.DotenvPath)
}

func (c *DotenvConfig) GetKey(key string) string {
	return os.Getenv(EnvName(key))
}

func (c *DotenvConfig) MustGetKey(key string) string {
	return mustGetKey(c, key)
}

func (c *DotenvConfig) GetKeyWithDefault(key, defaultValue string) string {
	return keyWithDefault(c, key, defaultValue)
}

func (c *DotenvConfig) GetIntKeyWithDefault(key string, defaultValue int) int {
	return intKeyWithDefault(c, key, defaultValue)
}

func (c *DotenvConfig) GetFloatKeyWithDefault(key string, defaultValue float64) float64 {
	return floatKeyWithDefault(c, key, defaultValue)
}

func (c *DotenvConfig) GetBoolKeyWithDefault(key string, defaultValue bool) bool {
	return boolKeyWithDefault(c, key, defaultValue)
}
