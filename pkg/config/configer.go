package config

type Configer interface {
	Load() error
	GetKey(key string) string
	MustGetKey(key string) string
	GetKeyWithDefault(key, defaultValue string) string
	GetIntKeyWithDefault(key string, defaultValue int) int
	GetFloatKeyWithDefault(key string, defaultValue float64) float64
	GetBoolKeyWithDefault(key string, defaultValue bool) bool
}
