package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/carve/internal/app"
)

func (c *CLI) newWorkerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Manage the background worker daemon",
	}

	cmd.PersistentFlags().String("socket", "", "Worker socket path (default: from carve.yaml)")

	cmd.AddCommand(c.newWorkerServeCmd())
	cmd.AddCommand(c.newWorkerStatusCmd())
	cmd.AddCommand(c.newWorkerStopCmd())

	return cmd
}

func (c *CLI) newWorkerServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "serve",
		Short:  "Start the worker daemon (internal use)",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			socket, _ := cmd.Flags().GetString("socket")
			idle, _ := cmd.Flags().GetDuration("idle-timeout")
			return c.app.Serve(cmd.Context(), app.ServeOptions{Socket: socket, IdleTimeout: idle})
		},
	}
	cmd.Flags().Duration("idle-timeout", 0, "Shut down after this long without requests (default: from carve.yaml)")
	return cmd
}

func (c *CLI) newWorkerStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show worker daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			socket, _ := cmd.Flags().GetString("socket")
			return c.app.Status(cmd.Context(), socket)
		},
	}
}

func (c *CLI) newWorkerStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the worker daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			socket, _ := cmd.Flags().GetString("socket")
			return c.app.Stop(cmd.Context(), socket)
		},
	}
}
