package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"modlauncher/internal/logging"
	"modlauncher/internal/project"
	"modlauncher/internal/workshop"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var showPaths bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List maps and mods in the game directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			items, err := project.Discover(cfg.Paths.GameDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintf(out, "No maps or mods found in %s\n", cfg.Paths.GameDir)
				return nil
			}
			tbl := launcherTable{columns: []column{{title: "Ref"}, {title: "Type"}, {title: "Zone"}}}
			if showPaths {
				tbl.columns = append(tbl.columns, column{title: "Zone File", kind: wideColumn})
			}
			for _, item := range items {
				row := []string{item.Ref(), item.Kind.String(), item.Zone}
				if showPaths {
					row = append(row, item.ZoneFile(cfg.Paths.GameDir))
				}
				tbl.add(row...)
			}
			fmt.Fprintln(out, tbl.render())
			return nil
		},
	}
	cmd.Flags().BoolVar(&showPaths, "paths", false, "Show zone file paths")
	return cmd
}

func newTemplatesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List templates available to 'new'",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			templates, err := project.Templates(cfg.Paths.ToolsDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(templates) == 0 {
				fmt.Fprintf(out, "No templates found in %s\n", project.TemplatesDir(cfg.Paths.ToolsDir))
				return nil
			}
			for _, name := range templates {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}

func newNewCommand(ctx *commandContext) *cobra.Command {
	var template string
	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a map or mod from a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			created, err := project.Create(cfg.Paths.ToolsDir, cfg.Paths.GameDir, args[0], template)
			if err != nil {
				return err
			}
			ctx.loggerOrNop().Info("created from template",
				logging.String("name", strings.ToLower(args[0])),
				logging.String("template", template),
				logging.Int("files", len(created)),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d files for %s\n", len(created), strings.ToLower(args[0]))
			return nil
		},
	}
	cmd.Flags().StringVarP(&template, "template", "t", "MP Mod Level", "Template to copy")
	return cmd
}

func newCleanXPaksCommand(ctx *commandContext) *cobra.Command {
	var assumeYes bool
	cmd := &cobra.Command{
		Use:   "clean-xpaks <map|mod>",
		Short: "Remove packed .xpak files from a map or mod",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			item, err := resolveOne(cfg, args[0])
			if err != nil {
				return err
			}
			files, err := project.XPaks(item.Folder(cfg.Paths.GameDir))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintln(out, "No files found")
				return nil
			}
			for _, file := range files {
				fmt.Fprintln(out, file)
			}
			if err := confirm(cmd, assumeYes, "Delete %d xpak files from %s?", len(files), item.Name); err != nil {
				return err
			}
			removed, err := project.CleanXPaks(files)
			fmt.Fprintf(out, "Removed %d of %d files\n", len(removed), len(files))
			return err
		},
	}
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	var assumeYes bool
	cmd := &cobra.Command{
		Use:   "delete <map|mod>",
		Short: "Delete the whole folder of a map or mod",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			item, err := resolveOne(cfg, args[0])
			if err != nil {
				return err
			}
			folder := item.Folder(cfg.Paths.GameDir)
			if err := confirm(cmd, assumeYes, "Delete %s and everything in it?", folder); err != nil {
				return err
			}
			if err := project.Delete(cfg.Paths.GameDir, item); err != nil {
				return err
			}
			ctx.loggerOrNop().Info("deleted item folder", logging.String("path", folder))
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", folder)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newWorkshopCommand(ctx *commandContext) *cobra.Command {
	workshopCmd := &cobra.Command{
		Use:   "workshop",
		Short: "Show or edit workshop.json of a map or mod",
	}

	workshopCmd.AddCommand(&cobra.Command{
		Use:   "show <map|mod>",
		Short: "Print the workshop metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			item, err := resolveOne(cfg, args[0])
			if err != nil {
				return err
			}
			meta, err := workshop.Load(workshop.Folder(cfg.Paths.GameDir, item))
			if err != nil {
				return err
			}
			publisher := ""
			if meta.PublisherID != 0 {
				publisher = fmt.Sprintf("%d", meta.PublisherID)
			}
			tbl := launcherTable{columns: []column{{title: "Field"}, {title: "Value", kind: wideColumn}}}
			tbl.add("Title", meta.Title)
			tbl.add("Description", meta.Description)
			tbl.add("Thumbnail", meta.Thumbnail)
			tbl.add("Type", meta.Type)
			tbl.add("Folder", meta.FolderName)
			tbl.add("Publisher ID", publisher)
			tbl.add("Tags", strings.Join(meta.Tags, ", "))
			fmt.Fprintln(cmd.OutOrStdout(), tbl.render())
			return nil
		},
	})

	var (
		title       string
		description string
		thumbnail   string
		publisherID uint64
		tags        []string
	)
	setCmd := &cobra.Command{
		Use:   "set <map|mod>",
		Short: "Update workshop metadata; unset flags keep their stored value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			item, err := resolveOne(cfg, args[0])
			if err != nil {
				return err
			}
			dir := workshop.Folder(cfg.Paths.GameDir, item)
			meta, err := workshop.Load(dir)
			if err != nil {
				return err
			}
			defaults := workshop.For(item)
			meta.Type, meta.FolderName = defaults.Type, defaults.FolderName

			flags := cmd.Flags()
			if flags.Changed("title") {
				meta.Title = title
			}
			if flags.Changed("description") {
				meta.Description = description
			}
			if flags.Changed("thumbnail") {
				meta.Thumbnail = thumbnail
			}
			if flags.Changed("publisher-id") {
				meta.PublisherID = publisherID
			}
			if flags.Changed("tag") {
				meta.Tags = tags
			}
			if err := workshop.Save(dir, meta); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", filepath.Join(dir, workshop.FileName))
			return nil
		},
	}
	setCmd.Flags().StringVar(&title, "title", "", "Workshop title")
	setCmd.Flags().StringVar(&description, "description", "", "Workshop description")
	setCmd.Flags().StringVar(&thumbnail, "thumbnail", "", "Thumbnail image path")
	setCmd.Flags().Uint64Var(&publisherID, "publisher-id", 0, "Published file ID")
	setCmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag, repeatable ("+strings.Join(workshop.Tags(), ", ")+")")
	workshopCmd.AddCommand(setCmd)

	workshopCmd.AddCommand(&cobra.Command{
		Use:   "tags",
		Short: "List accepted workshop tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, tag := range workshop.Tags() {
				fmt.Fprintln(cmd.OutOrStdout(), tag)
			}
			return nil
		},
	})

	return workshopCmd
}
