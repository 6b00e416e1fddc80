package cmd_match

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rskv-p/busmatch/mod/m_match/match_bus"
)

// runCmd replays a script against an in-memory broker.
var runCmd = &cobra.Command{
	Use:   "run <script|->",
	Short: "Run a match script against an in-memory broker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		var in io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open script: %w", err)
			}
			defer f.Close()
			in = f
		}

		s := newScript(match_bus.Options{MaxMatchesPerPeer: cfg.MaxMatchesPerPeer}, zerolog.Nop(), cmd.OutOrStdout())
		return s.run(in)
	},
}
