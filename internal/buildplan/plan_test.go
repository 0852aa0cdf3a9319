package buildplan_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modlauncher/internal/buildplan"
	"modlauncher/internal/pipeline"
	"modlauncher/internal/project"
	"modlauncher/internal/testsupport"
)

var (
	zmMap   = project.Item{Kind: project.KindMap, Name: "zm_test", Zone: "zm_test"}
	mpMap   = project.Item{Kind: project.KindMap, Name: "mp_test", Zone: "mp_test"}
	coreMod = project.Item{Kind: project.KindMod, Name: "weapons", Zone: "core_mod"}
	zmMod   = project.Item{Kind: project.KindMod, Name: "weapons", Zone: "zm_mod"}
)

func planner() buildplan.Planner {
	return buildplan.Planner{
		GamePath:  "/game",
		ToolsPath: "/game",
		Tools: buildplan.Tools{
			Updater:  "gdtdb",
			Compiler: "cod2map64",
			Radiant:  "radiant",
			Linker:   "linker",
			Game:     "game",
		},
	}
}

func programs(tasks []pipeline.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Program
	}
	return out
}

func TestBuildFullMapPipeline(t *testing.T) {
	p := planner()
	tasks, err := p.Build([]project.Item{zmMap}, buildplan.Options{
		Compile: true, CompileMode: buildplan.CompileFull,
		Light: true, LightQuality: buildplan.LightHigh,
		Link: true, Run: true, Language: "English",
		RunArgs:    []string{"+set", "developer", "2"},
		RunOptions: "+set  g_speed 300",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"gdtdb", "cod2map64", "radiant", "linker", "game"}, programs(tasks))

	mapSource := filepath.Join("/game", "map_source", "zm", "zm_test.map")
	assert.Equal(t, []string{"/update"}, tasks[0].Args)
	assert.Equal(t, []string{
		"-platform", "pc", "-navmesh", "-navvolume",
		"-loadFrom", mapSource, filepath.Join("/game", "share", "raw", "maps", "zm", "zm_test.d3dbsp"),
	}, tasks[1].Args)
	assert.Equal(t, []string{"-ledSilent", "+high", "+localprobes", "+forceclean", "+recompute", mapSource}, tasks[2].Args)
	assert.Equal(t, []string{"-language", "english", "-modsource", "zm_test"}, tasks[3].Args)
	assert.Equal(t, []string{
		"+set", "developer", "2",
		"+set", "fs_game", "zm_test", "+devmap", "zm_test",
		"+set", "g_speed", "300",
	}, tasks[4].Args)
}

func TestBuildEntsOnlyDefaultsLightToMedium(t *testing.T) {
	tasks, err := planner().Build([]project.Item{mpMap}, buildplan.Options{
		Compile: true, CompileMode: buildplan.CompileEntsOnly, Light: true, Language: "english",
	})
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Contains(t, tasks[1].Args, "-onlyents")
	assert.NotContains(t, tasks[1].Args, "-navmesh")
	assert.Equal(t, "+medium", tasks[2].Args[1])
}

func TestBuildModsLinkEachZoneAndRunLastMod(t *testing.T) {
	tasks, err := planner().Build([]project.Item{zmMap, coreMod, zmMod}, buildplan.Options{
		Link: true, Run: true, Language: "all",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"gdtdb", "linker", "linker", "linker", "game"}, programs(tasks))

	langArgs := buildplan.LanguageArgs(buildplan.AllLanguages)
	assert.Len(t, langArgs, 24)
	assert.Equal(t, append(append([]string(nil), langArgs...), "-fs_game", "weapons", "-modsource", "zm_mod"), tasks[3].Args)
	assert.Equal(t, []string{"+set", "fs_game", "weapons", "+devmap", "zm_test"}, tasks[4].Args)
}

func TestBuildRunOnlySkipsUpdater(t *testing.T) {
	tasks, err := planner().Build([]project.Item{coreMod}, buildplan.Options{Run: true, Language: "english"})
	require.NoError(t, err)
	require.Equal(t, []string{"game"}, programs(tasks))
	assert.Equal(t, []string{"+set", "fs_game", "weapons"}, tasks[0].Args)
}

func TestBuildNothingToDo(t *testing.T) {
	_, err := planner().Build(nil, buildplan.Options{Compile: true, Link: true, Run: true, Language: "english"})
	assert.ErrorIs(t, err, buildplan.ErrNoTasks)

	_, err = planner().Build([]project.Item{zmMap}, buildplan.Options{Language: "english"})
	assert.ErrorIs(t, err, buildplan.ErrNoTasks)
}

func TestBuildRejectsUnknownLanguage(t *testing.T) {
	_, err := planner().Build([]project.Item{zmMap}, buildplan.Options{Link: true, Language: "klingon"})
	assert.Error(t, err)
}

func TestLaunch(t *testing.T) {
	task := planner().Launch(zmMap, []string{"+set", "logfile", "1"}, "")
	assert.Equal(t, "game", task.Program)
	assert.Equal(t, []string{"+set", "logfile", "1", "+set", "fs_game", "zm_test", "+devmap", "zm_test"}, task.Args)

	task = planner().Launch(coreMod, nil, "+connect 1.2.3.4")
	assert.Equal(t, []string{"+set", "fs_game", "weapons", "+connect", "1.2.3.4"}, task.Args)
}

func TestNewPlannerResolvesConfiguredTools(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSharedToolsDir())
	p := buildplan.NewPlanner(cfg)

	assert.Equal(t, filepath.Join(cfg.Paths.GameDir, "gdtdb", "gdtdb.exe"), p.Tools.Updater)
	assert.Equal(t, filepath.Join(cfg.Paths.GameDir, "BlackOps3.exe"), p.Tools.Game)
	assert.Equal(t, cfg.Paths.GameDir, p.ToolsPath)
}

func TestValidateLanguage(t *testing.T) {
	lang, err := buildplan.ValidateLanguage(" French ")
	require.NoError(t, err)
	assert.Equal(t, "french", lang)
	assert.Equal(t, buildplan.AllLanguages, buildplan.Languages()[0])
}
