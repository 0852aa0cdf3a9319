package buildplan_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modlauncher/internal/buildplan"
	"modlauncher/internal/pipeline"
	"modlauncher/internal/testsupport"
)

func TestLoadRecipeExpandsPlaceholders(t *testing.T) {
	path := testsupport.WriteFile(t, filepath.Join(t.TempDir(), "recipe.yaml"), `
name: relink
ignore_errors: true
tasks:
  - program: ${tools}/bin/linker_modtools.exe
    args: [-language, english, -modsource, zm_test]
  - program: ${game}/BlackOps3.exe
    args:
      - +set
      - fs_game
      - zm_test
`)

	recipe, err := buildplan.LoadRecipe(path, "/g", "/t")
	require.NoError(t, err)
	assert.Equal(t, "relink", recipe.Name)
	assert.True(t, recipe.IgnoreErrors)
	assert.Equal(t, []pipeline.Task{
		{Program: "/t/bin/linker_modtools.exe", Args: []string{"-language", "english", "-modsource", "zm_test"}},
		{Program: "/g/BlackOps3.exe", Args: []string{"+set", "fs_game", "zm_test"}},
	}, recipe.Tasks)
}

func TestParseRecipeErrors(t *testing.T) {
	_, err := buildplan.ParseRecipe([]byte("tasks: []\n"), "", "")
	assert.ErrorIs(t, err, buildplan.ErrNoTasks)

	_, err = buildplan.ParseRecipe([]byte("tasks:\n  - args: [x]\n"), "", "")
	assert.ErrorContains(t, err, "no program")

	_, err = buildplan.ParseRecipe([]byte("tasks:\n  - program: a\n    dir: b\n"), "", "")
	assert.Error(t, err)

	_, err = buildplan.LoadRecipe(filepath.Join(t.TempDir(), "missing.yaml"), "", "")
	assert.Error(t, err)
}
