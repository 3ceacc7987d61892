// Package cli 命令行入口：serve、split、config。
package cli

import (
	"github.com/spf13/cobra"
)

// Version 版本号，构建时可通过 -ldflags 覆盖
var Version = "dev"

// options 全局参数
type options struct {
	configPath string
}

// NewRootCommand 构建命令树
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "annotations",
		Short: "6-traits essay comment annotation service",
		Long: `Serves the rater API for labeling essay comments with the six writing traits
(Ideas, Organization, Voice, Word Choice, Sentence Fluency, Conventions).

Labeled results are written back to the rater's spreadsheet: the original
comment row gets its trait flags and every sentence is appended as a derived row.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: config.toml next to the executable)")

	root.AddCommand(
		newServeCommand(opts),
		newSplitCommand(),
		newConfigCommand(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				cmd.Println("annotations " + Version)
			},
		},
	)
	return root
}

// Execute 运行命令
func Execute() error {
	return NewRootCommand().Execute()
}
