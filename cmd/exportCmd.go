package cmd

import (
	"Topolab/pkg/topo"
	"Topolab/pkg/ui"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Write a registered topology as YAML",
	Long:  `Write a registered topology in the YAML format accepted by --file, as a starting point for new topologies.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := topo.Build(args[0])
		if err != nil {
			return err
		}
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = t.Name + ".yaml"
		}
		if err = topo.Save(t, output); err != nil {
			return err
		}
		ui.Success(cmd.OutOrStdout(), "wrote "+output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("output", "o", "", "Output file (default: <name>.yaml)")
}
