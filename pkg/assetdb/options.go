package assetdb

import (
	"github.com/materials-commons/assetpack/pkg/config"
	"github.com/materials-commons/assetpack/pkg/texture"
)

type Options struct {
	Texture texture.Options

	// LogFile, when set, receives the build's log lines (at LogLevel)
	// instead of the global log.
	LogFile  string
	LogLevel string
}

func DefaultOptions() Options {
	return Options{Texture: texture.DefaultOptions()}
}

// OptionsFromConfig reads build options from c, keeping the defaults for
// anything unset.
func OptionsFromConfig(c config.Configer) Options {
	opts := DefaultOptions()
	opts.Texture.Quality = c.GetFloatKeyWithDefault(config.KeyTextureQuality, opts.Texture.Quality)
	opts.Texture.Threads = c.GetIntKeyWithDefault(config.KeyTextureThreads, opts.Texture.Threads)
	opts.Texture.MinMipSize = c.GetIntKeyWithDefault(config.KeyMinMipSize, opts.Texture.MinMipSize)
	opts.Texture.AllMips = c.GetBoolKeyWithDefault(config.KeyPackAllMips, opts.Texture.AllMips)
	opts.LogFile = c.GetKeyWithDefault(config.KeyBuildLogFile, "")
	opts.LogLevel = c.GetKeyWithDefault(config.KeyLogLevel, "")
	return opts
}
