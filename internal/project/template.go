package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/google/uuid"

	"modlauncher/internal/fileutil"
)

// ErrInvalidName is returned when a new map or mod name is rejected.
var ErrInvalidName = errors.New("invalid name")

const templatePlaceholder = "template"

var (
	namePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	guidPattern = regexp.MustCompile(`guid "\{(.*)\}"`)
)

// ShippedMaps are the maps that ship with the game; new maps may not reuse them.
var ShippedMaps = []string{
	"mp_aerospace", "mp_apartments", "mp_arena", "mp_banzai", "mp_biodome", "mp_chinatown",
	"mp_city", "mp_conduit", "mp_crucible", "mp_cryogen", "mp_ethiopia", "mp_freerun_01",
	"mp_freerun_02", "mp_freerun_03", "mp_freerun_04", "mp_havoc", "mp_infection", "mp_kung_fu",
	"mp_metro", "mp_miniature", "mp_nuketown_x", "mp_redwood", "mp_rise", "mp_rome", "mp_ruins",
	"mp_sector", "mp_shrine", "mp_skyjacked", "mp_spire", "mp_stronghold", "mp_veiled", "mp_waterpark",
	"mp_western", "zm_castle", "zm_factory", "zm_genesis", "zm_island", "zm_levelcommon",
	"zm_stalingrad", "zm_zod",
}

// TemplatesDir is the folder holding the scaffolding templates.
func TemplatesDir(toolsPath string) string {
	return filepath.Join(toolsPath, "rex", "templates")
}

// Templates lists the available template names.
func Templates(toolsPath string) ([]string, error) {
	return subdirs(TemplatesDir(toolsPath))
}

// ValidateName checks name against the naming rules for template and
// returns the lower-cased name used on disk.
func ValidateName(name, template string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: map name cannot be empty", ErrInvalidName)
	}
	if !namePattern.MatchString(name) {
		return "", fmt.Errorf("%w: %q may only contain letters, digits and underscores", ErrInvalidName, name)
	}
	lower := strings.ToLower(name)
	if slices.Contains(ShippedMaps, lower) {
		return "", fmt.Errorf("%w: map name cannot be the same as a built-in map", ErrInvalidName)
	}
	if (template == "MP Mod Level" && !strings.HasPrefix(lower, "mp_")) ||
		(template == "ZM Mod Level" && !strings.HasPrefix(lower, "zm_")) {
		return "", fmt.Errorf("%w: map name must start with 'mp_' or 'zm_'", ErrInvalidName)
	}
	return lower, nil
}

// Create copies template into gamePath, replacing the placeholder in paths
// and file contents with the map name. Lines declaring a guid receive a fresh
// one. It returns the created files.
func Create(toolsPath, gamePath, name, template string) ([]string, error) {
	mapName, err := ValidateName(name, template)
	if err != nil {
		return nil, err
	}
	templates, err := Templates(toolsPath)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(templates, template) {
		return nil, fmt.Errorf("template %q not found in %s", template, TemplatesDir(toolsPath))
	}

	root := filepath.Join(TemplatesDir(toolsPath), template)
	rewrite := func(line string) string {
		if strings.Contains(line, "guid") {
			return guidPattern.ReplaceAllLiteralString(line, fmt.Sprintf(`guid "{%s}"`, uuid.NewString()))
		}
		return strings.ReplaceAll(line, templatePlaceholder, mapName)
	}

	var created []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		dest := filepath.Join(gamePath, strings.ReplaceAll(rel, templatePlaceholder, mapName))
		if d.IsDir() {
			return os.MkdirAll(dest, 0o755)
		}
		if err := fileutil.CopyLines(path, dest, 0o644, rewrite); err != nil {
			return err
		}
		created = append(created, dest)
		return nil
	})
	if err != nil {
		return created, fmt.Errorf("create %s from %q: %w", mapName, template, err)
	}
	return created, nil
}
