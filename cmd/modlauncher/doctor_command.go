package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"modlauncher/internal/deps"
	"modlauncher/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check directories and mod tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			checks := preflight.RunAll(cfg)
			checkTable := launcherTable{columns: []column{{title: "Check"}, {title: "Status"}, {title: "Detail", kind: wideColumn}}}
			for _, r := range checks {
				checkTable.add(r.Name, passLabel(r.Passed, false), r.Detail)
			}
			fmt.Fprintln(out, checkTable.render())

			statuses := preflight.CheckSystemDeps(cfg)
			toolTable := launcherTable{columns: []column{{title: "Tool"}, {title: "Status"}, {title: "Detail", kind: wideColumn}}}
			for _, s := range statuses {
				detail := s.Command
				if !s.Available && s.Detail != "" {
					detail = s.Detail
				}
				toolTable.add(s.Name, passLabel(s.Available, s.Optional), detail)
			}
			fmt.Fprintln(out, toolTable.render())

			if len(preflight.Failed(checks)) > 0 || len(deps.Missing(statuses)) > 0 {
				return errors.New("doctor found problems")
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
}

func passLabel(ok, optional bool) string {
	switch {
	case ok:
		return "ok"
	case optional:
		return "missing (optional)"
	default:
		return "FAIL"
	}
}
