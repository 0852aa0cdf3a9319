package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"modlauncher/internal/logging"
	"modlauncher/internal/pipeline"
	"modlauncher/internal/process"
)

// newEditorCommands returns the commands that open interactive tools. They
// return immediately and do not take the run lock.
func newEditorCommands(ctx *commandContext) []*cobra.Command {
	radiant := &cobra.Command{
		Use:   "radiant [map]",
		Short: "Open the level editor, optionally on a map",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			task := pipeline.Task{Program: cfg.RadiantBinary()}
			if len(args) == 1 {
				item, err := resolveOne(cfg, args[0])
				if err != nil {
					return err
				}
				task.Args = []string{item.MapSource(cfg.Paths.GameDir)}
			}
			return startDetached(cmd, ctx, task)
		},
	}

	assetEditor := &cobra.Command{
		Use:   "asset-editor",
		Short: "Open the asset editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return startDetached(cmd, ctx, pipeline.Task{Program: cfg.AssetEditorBinary()})
		},
	}

	return []*cobra.Command{radiant, assetEditor}
}

func startDetached(cmd *cobra.Command, ctx *commandContext, task pipeline.Task) error {
	pid, err := process.StartDetached(process.Spec{Program: task.Program, Args: task.Args, Dir: task.Dir()})
	if err != nil {
		return err
	}
	ctx.loggerOrNop().Info("started editor",
		logging.String("program", task.Program),
		logging.Int("pid", pid),
	)
	fmt.Fprintln(cmd.OutOrStdout(), task.Invocation())
	return nil
}
