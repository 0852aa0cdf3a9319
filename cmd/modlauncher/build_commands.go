package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"modlauncher/internal/buildplan"
	"modlauncher/internal/pipeline"
)

type buildFlags struct {
	compile      bool
	light        bool
	link         bool
	run          bool
	compileMode  string
	lightQuality string
	language     string
	runOptions   string
	ignoreErrors bool
	dryRun       bool
}

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var flags buildFlags
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "build <map|mod|mod/zone>...",
		Short: "Compile, light, link and run maps and mods",
		Long: "Build runs the selected actions for every item in order. The asset\n" +
			"database is updated once before the first compile, light or link, and\n" +
			"the game starts last with the last selected mod, or map, loaded.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			svc, err := ctx.settingsService()
			if err != nil {
				return err
			}
			c := cmd.Context()

			items, err := resolveItems(cfg, args)
			if err != nil {
				return err
			}

			buildOpts := buildplan.Options{
				Compile:      flags.compile,
				CompileMode:  buildplan.CompileMode(flags.compileMode),
				Light:        flags.light,
				LightQuality: buildplan.LightQuality(flags.lightQuality),
				Link:         flags.link,
				Run:          flags.run,
				Language:     flags.language,
				RunOptions:   flags.runOptions,
			}
			if !cmd.Flags().Changed("mode") {
				buildOpts.CompileMode = buildplan.CompileMode(cfg.Build.CompileMode)
			}
			if !cmd.Flags().Changed("quality") {
				buildOpts.LightQuality = buildplan.LightQuality(cfg.Build.LightQuality)
			}
			if !cmd.Flags().Changed("language") {
				if buildOpts.Language, err = svc.Language(c); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("run-options") {
				if buildOpts.RunOptions, err = svc.RunOptions(c); err != nil {
					return err
				}
			}
			ignoreErrors := flags.ignoreErrors
			if !cmd.Flags().Changed("ignore-errors") {
				if ignoreErrors, err = svc.IgnoreErrors(c); err != nil {
					return err
				}
			}
			if flags.run {
				if buildOpts.RunArgs, err = svc.RunArgs(c); err != nil {
					return err
				}
			}

			tasks, err := buildplan.NewPlanner(cfg).Build(items, buildOpts)
			if err != nil {
				return err
			}
			if flags.dryRun {
				printTasks(cmd, tasks)
				return nil
			}
			_, err = runPipeline(cmd, ctx, opts, func(c context.Context, l *pipeline.Launcher) (string, error) {
				return l.StartCommands(c, tasks, ignoreErrors)
			})
			return err
		},
	}

	f := cmd.Flags()
	f.BoolVar(&flags.compile, "compile", false, "Compile selected maps")
	f.BoolVar(&flags.light, "light", false, "Bake lighting for selected maps")
	f.BoolVar(&flags.link, "link", false, "Link selected maps and mods")
	f.BoolVar(&flags.run, "run", false, "Start the game when done")
	f.StringVar(&flags.compileMode, "mode", "", "Compile mode (ents, full)")
	f.StringVar(&flags.lightQuality, "quality", "", "Lighting quality (low, medium, high)")
	f.StringVar(&flags.language, "language", "", "Link language ("+strings.Join(buildplan.Languages(), ", ")+")")
	f.StringVar(&flags.runOptions, "run-options", "", "Extra game arguments")
	f.BoolVar(&flags.ignoreErrors, "ignore-errors", false, "Continue after a failing task")
	f.BoolVar(&flags.dryRun, "dry-run", false, "Print the tasks without running them")
	opts.register(cmd)
	return cmd
}

func newLaunchCommand(ctx *commandContext) *cobra.Command {
	var extra string
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "launch <map|mod>",
		Short: "Start the game with a map or mod loaded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			svc, err := ctx.settingsService()
			if err != nil {
				return err
			}
			item, err := resolveOne(cfg, args[0])
			if err != nil {
				return err
			}
			runArgs, err := svc.RunArgs(cmd.Context())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("run-options") {
				if extra, err = svc.RunOptions(cmd.Context()); err != nil {
					return err
				}
			}
			task := buildplan.NewPlanner(cfg).Launch(item, runArgs, extra)
			_, err = runPipeline(cmd, ctx, opts, func(c context.Context, l *pipeline.Launcher) (string, error) {
				return l.StartCommands(c, []pipeline.Task{task}, false)
			})
			return err
		},
	}
	cmd.Flags().StringVar(&extra, "run-options", "", "Extra game arguments")
	opts.register(cmd)
	return cmd
}

func newRecipeCommand(ctx *commandContext) *cobra.Command {
	var ignoreErrors bool
	var dryRun bool
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "recipe <file.yaml>",
		Short: "Run a task list from a YAML recipe",
		Long: "A recipe lists tasks as program and args. ${game} and ${tools}\n" +
			"expand to the configured directories.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			recipe, err := buildplan.LoadRecipe(args[0], cfg.Paths.GameDir, cfg.Paths.ToolsDir)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("ignore-errors") {
				recipe.IgnoreErrors = ignoreErrors
			}
			if dryRun {
				printTasks(cmd, recipe.Tasks)
				return nil
			}
			_, err = runPipeline(cmd, ctx, opts, func(c context.Context, l *pipeline.Launcher) (string, error) {
				return l.StartCommands(c, recipe.Tasks, recipe.IgnoreErrors)
			})
			return err
		},
	}
	cmd.Flags().BoolVar(&ignoreErrors, "ignore-errors", false, "Continue after a failing task")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the tasks without running them")
	opts.register(cmd)
	return cmd
}

func printTasks(cmd *cobra.Command, tasks []pipeline.Task) {
	out := cmd.OutOrStdout()
	for _, task := range tasks {
		fmt.Fprintln(out, task.Invocation())
	}
}
