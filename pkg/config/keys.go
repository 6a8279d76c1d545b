package config

import "strings"

// EnvPrefix is prepended to every key when it is looked up in the
// environment, so texture_quality is read from ASSETPACK_TEXTURE_QUALITY.
const EnvPrefix = "ASSETPACK"

const (
	KeyTextureQuality = "texture_quality"
	KeyTextureThreads = "texture_threads"
	KeyMinMipSize     = "min_mip_size"
	KeyPackAllMips    = "pack_all_mips"
	KeyLogLevel       = "log_level"
	KeyLogFile        = "log_file"
	KeyBuildLogFile   = "build_log_file"
)

func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(key)
}
