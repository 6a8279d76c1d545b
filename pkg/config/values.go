package config

import (
	"strconv"

	"github.com/apex/log"
)

// The typed getters of every Configer parse the string value the same way.
// Unset or unparsable values fall back to the default.

func mustGetKey(c Configer, key string) string {
	val := c.GetKey(key)
	if val == "" {
		log.Fatalf("No such required config key: '%s'", key)
	}

	return val
}

func keyWithDefault(c Configer, key, defaultValue string) string {
	if val := c.GetKey(key); val != "" {
		return val
	}

	return defaultValue
}

func intKeyWithDefault(c Configer, key string, defaultValue int) int {
	intVal, err := strconv.Atoi(c.GetKey(key))
	if err != nil {
		return defaultValue
	}

	return intVal
}

func floatKeyWithDefault(c Configer, key string, defaultValue float64) float64 {
	floatVal, err := strconv.ParseFloat(c.GetKey(key), 64)
	if err != nil {
		return defaultValue
	}

	return floatVal
}

func boolKeyWithDefault(c Configer, key string, defaultValue bool) bool {
	boolVal, err := strconv.ParseBool(c.GetKey(key))
	if err != nil {
		return defaultValue
	}

	return boolVal
}
