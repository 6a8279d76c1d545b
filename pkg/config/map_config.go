package config

import "sync"

type MapConfig struct {
	configValues sync.Map
}

func NewMapConfig(entries map[string]string) *MapConfig {
	c := &MapConfig{}

	for key, entry := range entries {
		c.configValues.Store(key, entry)
	}

	return c
}

func (c *MapConfig) Load() error {
	return nil
}

func (c *MapConfig) Set(key, value string) {
	c.configValues.Store(key, value)
}

func (c *MapConfig) GetKey(key string) string {
	v, ok := c.configValues.Load(key)
	if !ok || v == nil {
		return ""
	}

	return v.(string)
}

func (c *MapConfig) MustGetKey(key string) string {
	return mustGetKey(c, key)
}

func (c *MapConfig) GetKeyWithDefault(key, defaultValue string) string {
	return keyWithDefault(c, key, defaultValue)
}

func (c *MapConfig) GetIntKeyWithDefault(key string, defaultValue int) int {
	return intKeyWithDefault(c, key, defaultValue)
}

func (c *MapConfig) GetFloatKeyWithDefault(key string, defaultValue float64) float64 {
	return floatKeyWithDefault(c, key, defaultValue)
}

func (c *MapConfig) GetBoolKeyWithDefault(key string, defaultValue bool) bool {
	return boolKeyWithDefault(c, key, defaultValue)
}
