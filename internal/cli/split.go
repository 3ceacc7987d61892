package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexasparks/6-traits-annotations/internal/parser"
)

func newSplitCommand() *cobra.Command {
	var numbered bool

	cmd := &cobra.Command{
		Use:   "split [text...]",
		Short: "Split a comment into sentences",
		Long:  `Split a comment into sentences, one per line. Reads stdin when no text is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(data)
			}

			out := cmd.OutOrStdout()
			for i, s := range parser.SplitSentences(text) {
				if numbered {
					fmt.Fprintf(out, "%d\t%s\n", i+1, s)
					continue
				}
				fmt.Fprintln(out, s)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&numbered, "numbered", "n", false, "prefix each sentence with its 1-based index")
	return cmd
}
