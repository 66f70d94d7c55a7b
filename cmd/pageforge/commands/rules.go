package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pageforge/pageforge/pkg/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Work with rules files",
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Validate rules files without fetching anything",
	Long: `Parse and compile rules files. Selector syntax, filter names and
filter arguments are all checked; a file that passes here will not fail
at extraction time for anything but site changes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, path := range args {
			rs, err := rules.FromFile(path)
			if err != nil {
				logError("%s: %v", path, err)
				failed++
				continue
			}
			logInfo("%s: ok (%s, %d fields)", path, rs.Name, len(rs.Fields))
		}
		if failed > 0 {
			return fmt.Errorf("%d rules file(s) invalid", failed)
		}
		return nil
	},
}

func init() {
	rulesCmd.AddCommand(rulesCheckCmd)
	rootCmd.AddCommand(rulesCmd)
}
