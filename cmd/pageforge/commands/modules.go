package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pageforge/pageforge/examples/bankdemo"
	"github.com/pageforge/pageforge/pkg/module"
)

// builtinRegistry holds the adapters compiled into this binary.
func builtinRegistry() (*module.Registry, error) {
	reg := module.NewRegistry()
	if err := reg.Register(bankdemo.New()); err != nil {
		return nil, err
	}
	return reg, nil
}

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List the available site adapters",
	Long: `List every site adapter compiled into this binary, with its
configuration surface. Required options without a default must be
supplied when the adapter is instantiated.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := builtinRegistry()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, name := range reg.Names() {
			m, _ := reg.Get(name)
			fmt.Fprintf(w, "%s\t%s\t%s\n", m.Name, m.Version, m.Description)
			for _, o := range m.Options {
				detail := string(o.Kind)
				if o.Required {
					detail += ", required"
				}
				if o.Default != "" {
					detail += ", default " + o.Display(o.Default)
				}
				fmt.Fprintf(w, "  %s\t%s\t(%s)\n", o.Name, o.Label, detail)
			}
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(modulesCmd)
}
