// Package cli defines the command line surface. Commands only parse input
// and delegate to the runner.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rvg-enhancer/internal/config"
	"rvg-enhancer/internal/logger"
	"rvg-enhancer/internal/runner"
)

const version = "1.0.0"

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "rvg-enhancer",
		Short: "Adaptive enhancement for dental radiographs",
		Long: `rvg-enhancer analyzes each radiograph's contrast, noise and sharpness
and derives per-image filter parameters before enhancing it. DICOM/RVG and
common raster formats are supported; results are written as PNG next to the
input.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")

	rootCmd.AddCommand(newEnhanceCmd(&configPath))
	rootCmd.AddCommand(newWatchCmd(&configPath))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newEnhanceCmd(configPath *string) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "enhance <file-or-directory>",
		Short: "Enhance a radiograph file or every radiograph in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := buildRunner(*configPath, outputDir)
			if err != nil {
				return err
			}

			input := args[0]
			info, err := os.Stat(input)
			if err != nil {
				return fmt.Errorf("cannot access %s: %w", input, err)
			}

			if info.IsDir() {
				_, err := r.ProcessDir(cmd.Context(), input)
				return err
			}

			_, err = r.ProcessFile(cmd.Context(), input)
			return err
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory for processed images (default: next to input)")

	return cmd
}

func newWatchCmd(configPath *string) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "watch <directory>",
		Short: "Process radiographs as they appear in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := buildRunner(*configPath, outputDir)
			if err != nil {
				return err
			}
			return r.Watch(cmd.Context(), args[0])
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory for processed images (default: next to input)")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rvg-enhancer %s\n", version)
		},
	}
}

func buildRunner(configPath, outputDir string) (*runner.Runner, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}

	log := logger.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	return runner.New(cfg, log)
}
