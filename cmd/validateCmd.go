package cmd

import (
	"Topolab/api"
	"Topolab/pkg/topo"
	"Topolab/pkg/ui"
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [name...]",
	Short: "Check topologies for structural errors",
	Long: `Check that node names are unique, every link endpoint is declared and host
addresses are well formed. Without arguments every registered topology is checked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		file, _ := cmd.Flags().GetString("file")

		var topologies []*api.Topology
		switch {
		case file != "":
			t, err := topo.Load(file)
			if err != nil {
				ui.ValidationErr(out, file, err.Error())
				return err
			}
			topologies = append(topologies, t)
		case len(args) == 0:
			args = topo.Names()
			fallthrough
		default:
			for _, name := range args {
				t, err := topo.Build(name)
				if err != nil {
					return err
				}
				topologies = append(topologies, t)
			}
		}

		failed := 0
		for _, t := range topologies {
			if err := topo.Validate(t); err != nil {
				ui.ValidationErr(out, t.Name, err.Error())
				failed++
				continue
			}
			switches, hosts := topo.Counts(t)
			ui.ValidationOK(out, t.Name, fmt.Sprintf("%d switches, %d hosts, %d links", switches, hosts, len(t.Links)))
		}

		if failed > 0 {
			return fmt.Errorf("%d invalid topologies", failed)
		}
		ui.Success(out, fmt.Sprintf("%d topologies valid", len(topologies)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringP("file", "f", "", "Path to a topology YAML file")
}
