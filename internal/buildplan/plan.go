package buildplan

import (
	"errors"
	"fmt"
	"strings"

	"modlauncher/internal/config"
	"modlauncher/internal/pipeline"
	"modlauncher/internal/project"
)

// ErrNoTasks is returned when the selection and options produce nothing to run.
var ErrNoTasks = errors.New("select at least one map or mod and one action")

// CompileMode selects what the map compiler rebuilds.
type CompileMode string

const (
	CompileEntsOnly CompileMode = "ents"
	CompileFull     CompileMode = "full"
)

// LightQuality selects the lighting bake quality.
type LightQuality string

const (
	LightLow    LightQuality = "low"
	LightMedium LightQuality = "medium"
	LightHigh   LightQuality = "high"
)

// Options selects the build actions.
type Options struct {
	Compile      bool
	CompileMode  CompileMode
	Light        bool
	LightQuality LightQuality
	Link         bool
	Run          bool
	// RunOptions are extra game arguments separated by spaces.
	RunOptions string
	Language   string
	// RunArgs are the rendered dvar arguments placed first on the game command line.
	RunArgs []string
}

// Tools holds resolved executable paths.
type Tools struct {
	Updater  string
	Compiler string
	Radiant  string
	Linker   string
	Game     string
}

// Planner builds task lists for one game install.
type Planner struct {
	GamePath  string
	ToolsPath string
	Tools     Tools
}

// NewPlanner resolves tool paths from cfg.
func NewPlanner(cfg *config.Config) Planner {
	return Planner{
		GamePath:  cfg.Paths.GameDir,
		ToolsPath: cfg.Paths.ToolsDir,
		Tools: Tools{
			Updater:  cfg.UpdaterBinary(),
			Compiler: cfg.CompilerBinary(),
			Radiant:  cfg.RadiantBinary(),
			Linker:   cfg.LinkerBinary(),
			Game:     cfg.GameBinary(),
		},
	}
}

// Build returns the tasks for items in selection order. The asset database
// update runs once, first, whenever any compile, light or link task is added.
// The game runs last with fs_game set to the last mod, or the last map when
// no mod was selected.
func (p Planner) Build(items []project.Item, opts Options) ([]pipeline.Task, error) {
	lang, err := ValidateLanguage(opts.Language)
	if err != nil {
		return nil, err
	}
	languageArgs := LanguageArgs(lang)

	var (
		tasks   []pipeline.Task
		updated bool
		lastMap string
		lastMod string
	)
	add := func(task pipeline.Task) {
		if !updated {
			tasks = append(tasks, pipeline.Task{Program: p.Tools.Updater, Args: []string{"/update"}})
			updated = true
		}
		tasks = append(tasks, task)
	}

	for _, item := range items {
		switch item.Kind {
		case project.KindMap:
			if opts.Compile {
				args := []string{"-platform", "pc"}
				if opts.CompileMode == CompileEntsOnly {
					args = append(args, "-onlyents")
				} else {
					args = append(args, "-navmesh", "-navvolume")
				}
				args = append(args, "-loadFrom", item.MapSource(p.GamePath), item.CompiledMap(p.GamePath))
				add(pipeline.Task{Program: p.Tools.Compiler, Args: args})
			}
			if opts.Light {
				args := []string{"-ledSilent", "+" + string(lightQuality(opts.LightQuality)),
					"+localprobes", "+forceclean", "+recompute", item.MapSource(p.GamePath)}
				add(pipeline.Task{Program: p.Tools.Radiant, Args: args})
			}
			if opts.Link {
				args := append(append([]string(nil), languageArgs...), "-modsource", item.Name)
				add(pipeline.Task{Program: p.Tools.Linker, Args: args})
			}
			lastMap = item.Name
		case project.KindMod:
			if opts.Link {
				args := append(append([]string(nil), languageArgs...), "-fs_game", item.Name, "-modsource", item.Zone)
				add(pipeline.Task{Program: p.Tools.Linker, Args: args})
			}
			lastMod = item.Name
		default:
			return nil, fmt.Errorf("unsupported item kind %v for %q", item.Kind, item.Name)
		}
	}

	if opts.Run && (lastMod != "" || lastMap != "") {
		fsGame := lastMod
		if fsGame == "" {
			fsGame = lastMap
		}
		tasks = append(tasks, p.gameTask(fsGame, lastMap, opts.RunArgs, opts.RunOptions))
	}

	if len(tasks) == 0 {
		return nil, ErrNoTasks
	}
	return tasks, nil
}

// Launch returns the single task that runs item in the game.
func (p Planner) Launch(item project.Item, runArgs []string, extra string) pipeline.Task {
	devmap := ""
	if item.Kind == project.KindMap {
		devmap = item.Name
	}
	return p.gameTask(item.Name, devmap, runArgs, extra)
}

func (p Planner) gameTask(fsGame, devmap string, runArgs []string, extra string) pipeline.Task {
	args := append([]string(nil), runArgs...)
	args = append(args, "+set", "fs_game", fsGame)
	if devmap != "" {
		args = append(args, "+devmap", devmap)
	}
	args = append(args, strings.Fields(extra)...)
	return pipeline.Task{Program: p.Tools.Game, Args: args}
}

func lightQuality(q LightQuality) LightQuality {
	switch q {
	case LightLow, LightHigh:
		return q
	default:
		return LightMedium
	}
}
