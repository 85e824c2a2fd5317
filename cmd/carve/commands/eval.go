package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/carve/internal/app"
)

func (c *CLI) newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <script>",
		Short: "Evaluate a script once and report the resulting scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Eval(cmd.Context(), args[0], evalOptions(cmd))
		},
	}
	addEvalFlags(cmd)
	return cmd
}

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <script>",
		Short: "Evaluate a script and re-evaluate it on every save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Watch(cmd.Context(), args[0], evalOptions(cmd))
		},
	}
	addEvalFlags(cmd)
	return cmd
}

func addEvalFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("no-cache", "n", false, "Bypass the operation cache")
	cmd.Flags().StringArray("set", nil, "Override a GUI control value (name=value), repeatable")
	cmd.Flags().StringP("out", "O", "", "Export the rendered mesh to this file")
	cmd.Flags().StringP("format", "f", "", "Export format: stl, obj or json (default: from --out extension)")
	cmd.Flags().Bool("daemon", false, "Evaluate on the background worker daemon")
	cmd.Flags().StringP("output-mode", "o", "auto", "Output mode: auto, tui, or linear")
	cmd.Flags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
	cmd.Flags().Bool("stats", false, "Print per-operation timings after each evaluation")
}

func evalOptions(cmd *cobra.Command) app.EvalOptions {
	noCache, _ := cmd.Flags().GetBool("no-cache")
	set, _ := cmd.Flags().GetStringArray("set")
	out, _ := cmd.Flags().GetString("out")
	format, _ := cmd.Flags().GetString("format")
	daemon, _ := cmd.Flags().GetBool("daemon")
	outputMode, _ := cmd.Flags().GetString("output-mode")
	ci, _ := cmd.Flags().GetBool("ci")
	stats, _ := cmd.Flags().GetBool("stats")

	// If --ci is set, override output-mode to "linear"
	if ci {
		outputMode = "linear"
	}

	return app.EvalOptions{
		NoCache:    noCache,
		Daemon:     daemon,
		Set:        set,
		Out:        out,
		Format:     format,
		OutputMode: outputMode,
		Stats:      stats,
	}
}
