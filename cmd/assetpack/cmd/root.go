package cmd

import (
	"os"

	"github.com/apex/log"
	"github.com/materials-commons/assetpack/pkg/clog"
	"github.com/materials-commons/assetpack/pkg/config"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	dotenvFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "assetpack",
	Short: "Packs glTF scenes into runtime asset bundles",
	Long: `assetpack compresses the textures and copies the geometry buffers of a glTF
scene into packed data files, and records every resource in a sqlite catalog.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupConfig(cmd)
	},
}

// setupConfig loads the optional .env file first so its values show up as
// environment variables, then layers the config file, environment and flags
// through viper.
func setupConfig(cmd *cobra.Command) error {
	if dotenvFile != "" {
		path, err := homedir.Expand(dotenvFile)
		if err != nil {
			return err
		}

		if err := config.NewDotenvConfig(path).Load(); err != nil {
			return err
		}
	}

	configPath, err := homedir.Expand(cfgFile)
	if err != nil {
		return err
	}

	c := config.NewViperConfig(configPath)
	v := c.Viper()
	if err := v.BindPFlag(config.KeyLogLevel, cmd.Flags().Lookup("log-level")); err != nil {
		return err
	}

	if err := v.BindPFlag(config.KeyLogFile, cmd.Flags().Lookup("log-file")); err != nil {
		return err
	}

	if err := c.Load(); err != nil {
		return err
	}
	config.SetConfig(c)

	if logFile := c.GetKey(config.KeyLogFile); logFile != "" {
		path, err := homedir.Expand(logFile)
		if err != nil {
			return err
		}
		clog.SetGlobalOutput(clog.NewRotatingWriter(path))
	}

	if err := clog.SetGlobalLoggerLevelFromString(c.GetKeyWithDefault(config.KeyLogLevel, "info")); err != nil {
		log.Warnf("Ignoring log level: %s", err)
	}

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	rootCmd.PersistentFlags().StringVar(&dotenvFile, "dotenv", "", "dotenv file with ASSETPACK_* settings")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to a rotating file instead of stdout")
}
