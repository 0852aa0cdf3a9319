// Package workshop reads and writes the workshop.json record kept next to a
// map or mod's zone folder.
package workshop

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"modlauncher/internal/fileutil"
	"modlauncher/internal/project"
)

// FileName is the metadata file inside the workshop folder.
const FileName = "workshop.json"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid workshop item")

var tags = []string{
	"Animation", "Audio", "Character", "Map", "Mod", "Mode", "Model", "Multiplayer", "Scorestreak", "Skin",
	"Specialist", "Texture", "UI", "Vehicle", "Visual Effect", "Weapon", "WIP", "Zombies",
}

// Tags returns the accepted tags in display order.
func Tags() []string {
	return append([]string(nil), tags...)
}

// CanonicalTag returns the accepted spelling of tag, ignoring case.
func CanonicalTag(tag string) (string, bool) {
	tag = strings.TrimSpace(tag)
	for _, known := range tags {
		if strings.EqualFold(known, tag) {
			return known, true
		}
	}
	return "", false
}

// Item is the workshop metadata of one map or mod.
type Item struct {
	PublisherID uint64
	Title       string
	Description string
	Thumbnail   string
	Type        string
	FolderName  string
	Tags        []string
}

type record struct {
	PublisherID string `json:"PublisherID"`
	Title       string `json:"Title"`
	Description string `json:"Description"`
	Thumbnail   string `json:"Thumbnail"`
	Type        string `json:"Type"`
	FolderName  string `json:"FolderName"`
	Tags        string `json:"Tags"`
}

// Folder is the directory holding workshop.json for item.
func Folder(gamePath string, item project.Item) string {
	return filepath.Join(item.Folder(gamePath), "zone")
}

// For returns an empty record describing item.
func For(item project.Item) Item {
	return Item{Type: item.Kind.String(), FolderName: item.Name}
}

// Load reads workshop.json from dir. A missing file yields a zero Item.
func Load(dir string) (Item, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return Item{}, fmt.Errorf("workshop folder: %w", err)
	}
	if !info.IsDir() {
		return Item{}, fmt.Errorf("workshop folder %q is not a directory", dir)
	}

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return Item{}, nil
	}
	if err != nil {
		return Item{}, fmt.Errorf("read %s: %w", FileName, err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Item{}, fmt.Errorf("parse %s: %w", FileName, err)
	}
	item := Item{
		Title:       rec.Title,
		Description: rec.Description,
		Thumbnail:   rec.Thumbnail,
		Type:        rec.Type,
		FolderName:  rec.FolderName,
	}
	if id := strings.TrimSpace(rec.PublisherID); id != "" {
		item.PublisherID, err = strconv.ParseUint(id, 10, 64)
		if err != nil {
			return Item{}, fmt.Errorf("parse PublisherID %q: %w", id, err)
		}
	}
	for _, tag := range strings.Split(rec.Tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			item.Tags = append(item.Tags, tag)
		}
	}
	return item, nil
}

// Validate checks the type and normalises tags to their accepted spelling.
func (i *Item) Validate() error {
	switch i.Type {
	case "map", "mod":
	default:
		return fmt.Errorf("%w: type must be map or mod, got %q", ErrInvalid, i.Type)
	}
	if strings.TrimSpace(i.FolderName) == "" {
		return fmt.Errorf("%w: folder name is required", ErrInvalid)
	}
	seen := make(map[string]bool, len(i.Tags))
	normalized := make([]string, 0, len(i.Tags))
	for _, tag := range i.Tags {
		canonical, ok := CanonicalTag(tag)
		if !ok {
			return fmt.Errorf("%w: unknown tag %q", ErrInvalid, tag)
		}
		if seen[canonical] {
			continue
		}
		seen[canonical] = true
		normalized = append(normalized, canonical)
	}
	i.Tags = normalized
	return nil
}

// Save validates item and writes it to dir.
func Save(dir string, item Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	rec := record{
		Title:       item.Title,
		Description: item.Description,
		Thumbnail:   item.Thumbnail,
		Type:        item.Type,
		FolderName:  item.FolderName,
		Tags:        strings.Join(item.Tags, ","),
	}
	if item.PublisherID != 0 {
		rec.PublisherID = strconv.FormatUint(item.PublisherID, 10)
	}
	data, err := json.MarshalIndent(rec, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", FileName, err)
	}
	path := filepath.Join(dir, FileName)
	if err := fileutil.WriteAtomic(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("error writing to file '%s': %w", path, err)
	}
	return nil
}
