package cmd_match

import (
	"github.com/spf13/cobra"

	"github.com/rskv-p/busmatch/config"
)

var (
	configPath string
	maxMatches int
	httpAddr   string
	embedded   bool
)

var Cmd = &cobra.Command{
	Use:   "match",
	Short: "Check, script and serve match rules",
}

func init() {
	Cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (.json, .toml or .yaml)")
	Cmd.PersistentFlags().IntVar(&maxMatches, "max-matches", 0, "per-peer match limit (0 = unlimited)")
	serveCmd.Flags().StringVar(&httpAddr, "http-addr", "", "admin API address (empty disables it)")
	serveCmd.Flags().BoolVar(&embedded, "embedded", false, "run an in-process NATS server")

	Cmd.AddCommand(checkCmd)
	Cmd.AddCommand(runCmd)
	Cmd.AddCommand(serveCmd)
}

// loadConfig reads defaults, the optional config file, the environment and
// finally any flags set on cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	opts := []config.Option{}
	if configPath != "" {
		opts = append(opts, config.FromFile(configPath))
	}
	opts = append(opts, config.FromEnv(config.EnvPrefix), config.WithValues(flagValues(cmd)))

	cfg, err := config.New(opts...)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// flagValues maps the flags given on the command line to config keys.
func flagValues(cmd *cobra.Command) map[string]any {
	values := map[string]any{}
	flags := cmd.Flags()
	if flags.Changed("max-matches") {
		values["max_matches_per_peer"] = maxMatches
	}
	if flags.Changed("http-addr") {
		values["http_addr"] = httpAddr
	}
	if flags.Changed("embedded") {
		values["embedded"] = embedded
	}
	return values
}
