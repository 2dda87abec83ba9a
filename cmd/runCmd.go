package cmd

import (
	"Topolab/api"
	"Topolab/pkg"
	"Topolab/pkg/link"
	"Topolab/pkg/node"
	"Topolab/pkg/ovs"
	"Topolab/pkg/topo"
	"Topolab/pkg/ui"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:     "run [name]",
	Aliases: []string{"apply"},
	Short:   "Run a topology",
	Long: `Run a registered topology (or one from --file) with every switch attached to
the remote controller, optionally start a DHCP server on one host, and open an
interactive shell. The network is torn down when the shell exits.

The DHCP server runs when --dhcp or --dhcp-host is given, and by default for
the final project topology (mytopo) unless --no-dhcp is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		t, err := resolveTopology(file, args)
		if err != nil {
			return err
		}

		opts := pkg.RunOptions{
			Controller:  cfg.Controller,
			Interactive: !v.GetBool("no_cli"),
			In:          os.Stdin,
			Out:         cmd.OutOrStdout(),
		}
		withDHCP, _ := cmd.Flags().GetBool("dhcp")
		noDHCP, _ := cmd.Flags().GetBool("no-dhcp")
		dhcpHost, _ := cmd.Flags().GetString("dhcp-host")
		if opts.DHCP, err = dhcpServer(t, cfg.DHCP, withDHCP, noDHCP, dhcpHost); err != nil {
			return err
		}

		if os.Geteuid() != 0 {
			ui.Warn(cmd.ErrOrStderr(), "not running as root, creating switches and links will most likely fail")
		}

		cm, err := node.NewContainerManager(logger, cfg.Host.Image)
		if err != nil {
			return err
		}
		defer cm.Close()

		m := pkg.NewManager(logger,
			ovs.NewOvsManager(logger, cfg.Switch.Protocols, cfg.Switch.FailMode),
			cm,
			link.NewLinkManager(logger),
		)
		if err = pkg.NewRunner(logger, m).Run(cmd.Context(), t, opts); err != nil {
			logger.Error("run failed", zap.String("topology", t.Name), zap.Error(err))
			return err
		}
		ui.Success(cmd.OutOrStdout(), "network "+t.Name+" stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("file", "f", "", "Path to a topology YAML file")
	runCmd.Flags().String("controller-ip", "127.0.0.1", "Remote controller address")
	runCmd.Flags().Int("controller-port", 6653, "Remote controller port")
	runCmd.Flags().Bool("dhcp", false, "Start a DHCP server on the DHCP host (always on for "+topo.FinalProjectName+")")
	runCmd.Flags().Bool("no-dhcp", false, "Never start a DHCP server")
	runCmd.Flags().String("dhcp-host", "", "Host running the DHCP server, implies --dhcp (default from config)")
	runCmd.Flags().Bool("no-cli", false, "Do not open the shell, run until interrupted")

	_ = v.BindPFlag("controller.ip", runCmd.Flags().Lookup("controller-ip"))
	_ = v.BindPFlag("controller.port", runCmd.Flags().Lookup("controller-port"))
	_ = v.BindPFlag("no_cli", runCmd.Flags().Lookup("no-cli"))
}

// dhcpServer decides whether t runs with a DHCP server and on which host.
func dhcpServer(t *api.Topology, base api.DHCPServer, enable, disable bool, host string) (*api.DHCPServer, error) {
	if disable {
		if enable || host != "" {
			return nil, errors.New("--no-dhcp conflicts with --dhcp and --dhcp-host")
		}
		return nil, nil
	}
	if !enable && host == "" && t.Name != topo.FinalProjectName {
		return nil, nil
	}
	d := base
	if host != "" {
		d.Host = host
	}
	return &d, nil
}
