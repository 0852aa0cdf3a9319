package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"modlauncher/internal/dvar"
	"modlauncher/internal/settings"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change persisted preferences",
	}

	settingsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List preferences with their effective values",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.settingsService()
			if err != nil {
				return err
			}
			entries, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			tbl := launcherTable{columns: []column{{title: "Key"}, {title: "Value", kind: wideColumn}, {title: "Source"}}}
			for _, e := range entries {
				source := "default"
				if e.Stored {
					source = "stored"
				}
				tbl.add(string(e.Key), e.Value, source)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tbl.render())
			return nil
		},
	})

	settingsCmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print the effective value of a preference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.settingsService()
			if err != nil {
				return err
			}
			key, err := settings.ParseKey(args[0])
			if err != nil {
				return err
			}
			entries, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, e := range entries {
				if e.Key == key {
					fmt.Fprintln(cmd.OutOrStdout(), e.Value)
					return nil
				}
			}
			return nil
		},
	})

	settingsCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a preference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.settingsService()
			if err != nil {
				return err
			}
			key, err := settings.ParseKey(args[0])
			if err != nil {
				return err
			}
			return svc.Set(cmd.Context(), key, args[1])
		},
	})

	settingsCmd.AddCommand(&cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a stored preference so its default applies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.settingsService()
			if err != nil {
				return err
			}
			key, err := settings.ParseKey(args[0])
			if err != nil {
				return err
			}
			return svc.Unset(cmd.Context(), key)
		},
	})

	return settingsCmd
}

func newDvarsCommand(ctx *commandContext) *cobra.Command {
	dvarsCmd := &cobra.Command{
		Use:   "dvars",
		Short: "Manage dvars passed to the game",
	}

	dvarsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List known dvars and their stored values",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.settingsService()
			if err != nil {
				return err
			}
			assignments, err := svc.Dvars(cmd.Context())
			if err != nil {
				return err
			}
			stored := make(map[string]string, len(assignments))
			for _, a := range assignments {
				stored[a.Def.Name] = a.Value.String()
			}
			tbl := launcherTable{columns: []column{
				{title: "Dvar"},
				{title: "Type"},
				{title: "Range", kind: numberColumn},
				{title: "Value"},
				{title: "Description", kind: wideColumn},
			}}
			for _, def := range dvar.Definitions() {
				tbl.add(def.Name, def.Kind.String(), rangeLabel(def), stored[def.Name], def.Description)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tbl.render())
			return nil
		},
	})

	dvarsCmd.AddCommand(&cobra.Command{
		Use:   "set <name> <value>",
		Short: "Store a dvar value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.settingsService()
			if err != nil {
				return err
			}
			return svc.SetDvar(cmd.Context(), args[0], args[1])
		},
	})

	dvarsCmd.AddCommand(&cobra.Command{
		Use:   "unset <name>",
		Short: "Stop passing a dvar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.settingsService()
			if err != nil {
				return err
			}
			return svc.UnsetDvar(cmd.Context(), args[0])
		},
	})

	return dvarsCmd
}

func rangeLabel(def dvar.Definition) string {
	if def.Kind != dvar.KindInt {
		return ""
	}
	return strconv.Itoa(def.Min) + "-" + strconv.Itoa(def.Max)
}
