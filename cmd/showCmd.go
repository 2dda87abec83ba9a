package cmd

import (
	"Topolab/pkg"
	"fmt"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a topology",
	Long:  `Show the nodes or links a topology declares, without running it.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		t, err := resolveTopology(file, args)
		if err != nil {
			return err
		}
		class, _ := cmd.Flags().GetString("class")
		switch class {
		case "nodes":
			pkg.ShowNodes(cmd.OutOrStdout(), t)
		case "links":
			pkg.ShowLinks(cmd.OutOrStdout(), t)
		default:
			return fmt.Errorf("invalid class %q, want nodes or links", class)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().String("class", "nodes", "Class of the element to show (nodes, links)")
	showCmd.Flags().StringP("file", "f", "", "Path to a topology YAML file")
}
