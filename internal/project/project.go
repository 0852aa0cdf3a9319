package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound is returned when a reference matches no discovered item.
var ErrNotFound = errors.New("map or mod not found")

// Kind distinguishes maps from mod zones.
type Kind int

const (
	KindMap Kind = iota + 1
	KindMod
)

func (k Kind) String() string {
	switch k {
	case KindMap:
		return "map"
	case KindMod:
		return "mod"
	default:
		return "unknown"
	}
}

// ModZones are the zone files a mod may carry, in build order.
var ModZones = []string{"core_mod", "mp_mod", "cp_mod", "zm_mod"}

// Item is one buildable map or mod zone.
type Item struct {
	Kind Kind
	// Name is the map name or the mod folder name.
	Name string
	// Zone equals Name for maps and is one of ModZones for mods.
	Zone string
}

// Ref is the textual form accepted by Find: "name" for maps, "mod/zone" for mods.
func (i Item) Ref() string {
	if i.Kind == KindMod {
		return i.Name + "/" + i.Zone
	}
	return i.Name
}

// Folder is the root folder of the map or mod.
func (i Item) Folder(gamePath string) string {
	if i.Kind == KindMod {
		return filepath.Join(gamePath, "mods", i.Name)
	}
	return filepath.Join(gamePath, "usermaps", i.Name)
}

// ZoneFile is the zone source file of the item.
func (i Item) ZoneFile(gamePath string) string {
	return filepath.Join(i.Folder(gamePath), "zone_source", i.Zone+".zone")
}

// MapSource is the editor source of a map. Mods have none.
func (i Item) MapSource(gamePath string) string {
	if i.Kind != KindMap {
		return ""
	}
	return filepath.Join(gamePath, "map_source", prefix(i.Name), i.Name+".map")
}

// CompiledMap is where the compiler writes the d3dbsp of a map.
func (i Item) CompiledMap(gamePath string) string {
	if i.Kind != KindMap {
		return ""
	}
	return filepath.Join(gamePath, "share", "raw", "maps", prefix(i.Name), i.Name+".d3dbsp")
}

func prefix(name string) string {
	if len(name) > 2 {
		return name[:2]
	}
	return name
}

// Discover lists maps then mods found under gamePath. Maps need
// usermaps/<n>/zone_source/<n>.zone; mods list each present zone of ModZones.
// Missing usermaps or mods folders yield no items.
func Discover(gamePath string) ([]Item, error) {
	var items []Item

	maps, err := subdirs(filepath.Join(gamePath, "usermaps"))
	if err != nil {
		return nil, err
	}
	for _, name := range maps {
		item := Item{Kind: KindMap, Name: name, Zone: name}
		if isFile(item.ZoneFile(gamePath)) {
			items = append(items, item)
		}
	}

	mods, err := subdirs(filepath.Join(gamePath, "mods"))
	if err != nil {
		return nil, err
	}
	for _, name := range mods {
		for _, zone := range ModZones {
			item := Item{Kind: KindMod, Name: name, Zone: zone}
			if isFile(item.ZoneFile(gamePath)) {
				items = append(items, item)
			}
		}
	}
	return items, nil
}

// Find resolves refs against items. A bare name matches a map or every zone
// of a mod; "mod/zone" matches one zone. Results keep the order of refs.
func Find(items []Item, refs ...string) ([]Item, error) {
	var out []Item
	for _, ref := range refs {
		ref = strings.TrimSpace(filepath.ToSlash(ref))
		name, zone, hasZone := strings.Cut(ref, "/")
		matched := false
		for _, item := range items {
			switch {
			case hasZone:
				if item.Kind == KindMod && strings.EqualFold(item.Name, name) && strings.EqualFold(item.Zone, zone) {
					out = append(out, item)
					matched = true
				}
			case strings.EqualFold(item.Name, name):
				out = append(out, item)
				matched = true
			}
		}
		if !matched {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, ref)
		}
	}
	return out, nil
}

// XPaks lists the packed .xpak files under folder.
func XPaks(folder string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(folder, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) && path == folder {
				return filepath.SkipAll
			}
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".xpak") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan xpaks: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// CleanXPaks removes files and returns those actually removed. Removal
// continues past failures; the first error is returned.
func CleanXPaks(files []string) ([]string, error) {
	var (
		removed  []string
		firstErr error
	)
	for _, file := range files {
		if err := os.Remove(file); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("remove %s: %w", file, err)
			}
			continue
		}
		removed = append(removed, file)
	}
	return removed, firstErr
}

// Delete removes the whole folder of item.
func Delete(gamePath string, item Item) error {
	if strings.TrimSpace(gamePath) == "" || item.Name == "" {
		return errors.New("delete: game path and item name are required")
	}
	folder := item.Folder(gamePath)
	if _, err := os.Stat(folder); err != nil {
		return fmt.Errorf("delete %s: %w", folder, err)
	}
	if err := os.RemoveAll(folder); err != nil {
		return fmt.Errorf("delete %s: %w", folder, err)
	}
	return nil
}

func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
