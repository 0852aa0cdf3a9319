package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"modlauncher/internal/config"
	"modlauncher/internal/project"
)

// resolveItems discovers the maps and mods of the game install and resolves
// refs against them. No refs selects nothing.
func resolveItems(cfg *config.Config, refs []string) ([]project.Item, error) {
	items, err := project.Discover(cfg.Paths.GameDir)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, nil
	}
	return project.Find(items, refs...)
}

// resolveOne resolves ref to exactly one map or mod folder. Zones of the same
// mod share a folder, so a bare mod name is accepted.
func resolveOne(cfg *config.Config, ref string) (project.Item, error) {
	items, err := resolveItems(cfg, []string{ref})
	if err != nil {
		return project.Item{}, err
	}
	if len(items) == 0 {
		return project.Item{}, fmt.Errorf("%w: %q", project.ErrNotFound, ref)
	}
	first := items[0]
	for _, item := range items[1:] {
		if item.Kind != first.Kind || item.Name != first.Name {
			return project.Item{}, fmt.Errorf("%q is ambiguous; use mod/zone", ref)
		}
	}
	return first, nil
}

var errDeclined = errors.New("aborted")

// confirm asks a yes/no question on the command's input. assumeYes skips
// the prompt.
func confirm(cmd *cobra.Command, assumeYes bool, format string, args ...any) error {
	if assumeYes {
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), format+" [y/N]: ", args...)
	answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	}
	return errDeclined
}
