package cmd_match

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rskv-p/busmatch/mod/m_match/match_keys"
)

// checkCmd parses rules and prints their canonical form.
var checkCmd = &cobra.Command{
	Use:   "check <rule>...",
	Short: "Validate match rules and print them canonically",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return checkRules(cmd.OutOrStdout(), args)
	},
}

// checkRules prints one line per rule and fails if any rule is invalid.
func checkRules(out io.Writer, rules []string) error {
	invalid := 0
	for _, text := range rules {
		k, err := match_keys.Parse(text)
		if err != nil {
			fmt.Fprintf(out, "INVALID %q: %v\n", text, err)
			invalid++
			continue
		}
		fmt.Fprintf(out, "OK      %s\n", k.String())
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d rules invalid", invalid, len(rules))
	}
	return nil
}
