package cmd

import (
	"Topolab/pkg/link"
	"Topolab/pkg/node"
	"Topolab/pkg/ovs"
	"Topolab/pkg/ui"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove leftovers of crashed runs",
	Long:  `Remove every switch bridge, switch interface and host container topolab created.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var errs []error
		out := cmd.OutOrStdout()

		om := ovs.NewOvsManager(logger, nil, "")
		lm := link.NewLinkManager(logger)
		bridges, err := om.Owned()
		if err != nil {
			errs = append(errs, err)
		}
		for br, ports := range bridges {
			for _, port := range ports {
				if err := lm.DeleteInterface(port); err != nil {
					errs = append(errs, err)
				}
			}
			if err := om.DeleteSwitch(br); err != nil {
				errs = append(errs, err)
				continue
			}
			logger.Info("removed switch", zap.String("bridge", br), zap.Int("ports", len(ports)))
		}

		cm, err := node.NewContainerManager(logger, "")
		if err != nil {
			return errors.Join(append(errs, err)...)
		}
		defer cm.Close()
		containers, err := cm.Owned(cmd.Context())
		if err != nil {
			errs = append(errs, err)
		}
		for _, id := range containers {
			if err := cm.RemoveContainer(cmd.Context(), id); err != nil {
				errs = append(errs, err)
				continue
			}
			logger.Info("removed host container", zap.String("id", id))
		}

		if err := errors.Join(errs...); err != nil {
			return err
		}
		ui.Success(out, fmt.Sprintf("removed %d switches and %d hosts", len(bridges), len(containers)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
}
