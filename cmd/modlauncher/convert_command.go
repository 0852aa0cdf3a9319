package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"modlauncher/internal/config"
	"modlauncher/internal/pipeline"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var (
		outputDir    string
		overwrite    bool
		ignoreErrors bool
		opts         runOptions
	)

	cmd := &cobra.Command{
		Use:   "convert <file|dir>...",
		Short: "Convert XANIM_EXPORT and XMODEL_EXPORT files with export2bin",
		Long: "Convert pipes every file through export2bin and writes the result to\n" +
			"the output directory. Directories are expanded to the files they\n" +
			"contain, without recursion. Unsupported files are reported and skipped.\n" +
			"A file export2bin rejects is counted as a failure and the run moves on\n" +
			"to the next file; pass --ignore-errors=false to stop at the first one.",
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

			if !cmd.Flags().Changed("out") {
				if outputDir, err = svc.TargetDir(c); err != nil {
					return err
				}
			}
			if outputDir == "" {
				return errors.New("no output directory; pass --out or set export2bin_target_dir")
			}
			if outputDir, err = config.ExpandPath(outputDir); err != nil {
				return err
			}
			if !cmd.Flags().Changed("overwrite") {
				if overwrite, err = svc.Overwrite(c); err != nil {
					return err
				}
			}

			files, err := expandInputs(args)
			if err != nil {
				return err
			}
			req := pipeline.ConvertRequest{
				Files:        files,
				OutputDir:    outputDir,
				IgnoreErrors: ignoreErrors,
				Overwrite:    overwrite,
				Program:      cfg.Export2BinBinary(),
				Args:         cfg.Export2Bin.Args,
			}
			_, err = runPipeline(cmd, ctx, opts, func(c context.Context, l *pipeline.Launcher) (string, error) {
				return l.StartConversion(c, req)
			})
			return err
		},
	}
	cmd.Flags().StringVarP(&outputDir, "out", "o", "", "Output directory")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing output files")
	cmd.Flags().BoolVar(&ignoreErrors, "ignore-errors", true, "Continue after a failing conversion")
	opts.register(cmd)
	return cmd
}

// expandInputs replaces directories with their regular files, sorted by name.
// Missing paths are kept so the run reports them.
func expandInputs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			files = append(files, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", arg, err)
		}
		var names []string
		for _, entry := range entries {
			if entry.Type().IsRegular() {
				names = append(names, filepath.Join(arg, entry.Name()))
			}
		}
		sort.Strings(names)
		files = append(files, names...)
	}
	return files, nil
}
