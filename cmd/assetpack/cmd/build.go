package cmd

import (
	"github.com/apex/log"
	"github.com/materials-commons/assetpack/pkg/assetdb"
	"github.com/materials-commons/assetpack/pkg/clog"
	"github.com/materials-commons/assetpack/pkg/config"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build <scene.gltf> <catalog.db>",
	Short: "Build a catalog and packed data files from a scene",
	Long: `Build reads the scene document, compresses its images into Textures.bin,
copies its buffers into Buffers.bin and writes the catalog. The packed data
files are written next to the catalog. Any existing catalog is replaced.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := homedir.Expand(args[0])
		if err != nil {
			return err
		}

		dst, err := homedir.Expand(args[1])
		if err != nil {
			return err
		}

		return runBuild(src, dst, config.GetConfig())
	},
}

func runBuild(src, dst string, c config.Configer) error {
	b := assetdb.NewBuilder(assetdb.OptionsFromConfig(c))
	if err := b.Build(src, dst); err != nil {
		var buildErr *assetdb.BuildError
		if errors.As(err, &buildErr) {
			clog.Global().WithField("stage", buildErr.Stage.String()).Errorf("Build of %s failed", dst)
		}
		return err
	}

	log.Infof("Wrote %s", dst)
	return nil
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
