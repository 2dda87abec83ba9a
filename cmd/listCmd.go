package cmd

import (
	"Topolab/pkg/topo"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered topologies",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Name", "Switches", "Hosts", "Links", "Loop"})
		for _, name := range topo.Names() {
			t, err := topo.Build(name)
			if err != nil {
				return err
			}
			switches, hosts := topo.Counts(t)
			loop := ""
			if topo.HasCycle(t) {
				loop = "yes"
			}
			table.Append([]string{name, fmt.Sprint(switches), fmt.Sprint(hosts), fmt.Sprint(len(t.Links)), loop})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
