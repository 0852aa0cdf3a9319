package buildplan

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"modlauncher/internal/pipeline"
)

// Recipe is a user-authored task list.
type Recipe struct {
	Name         string          `yaml:"name"`
	IgnoreErrors bool            `yaml:"ignore_errors"`
	Tasks        []pipeline.Task `yaml:"tasks"`
}

// LoadRecipe reads a YAML recipe and expands ${game} and ${tools} in every
// program and argument.
func LoadRecipe(path, gamePath, toolsPath string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipe: %w", err)
	}
	return ParseRecipe(data, gamePath, toolsPath)
}

// ParseRecipe decodes recipe YAML. Unknown keys are rejected.
func ParseRecipe(data []byte, gamePath, toolsPath string) (*Recipe, error) {
	var recipe Recipe
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&recipe); err != nil {
		return nil, fmt.Errorf("parse recipe: %w", err)
	}

	expand := strings.NewReplacer("${game}", gamePath, "${tools}", toolsPath)
	for i := range recipe.Tasks {
		task := &recipe.Tasks[i]
		task.Program = strings.TrimSpace(expand.Replace(task.Program))
		if task.Program == "" {
			return nil, fmt.Errorf("parse recipe: task %d has no program", i+1)
		}
		for j, arg := range task.Args {
			task.Args[j] = expand.Replace(arg)
		}
	}
	if len(recipe.Tasks) == 0 {
		return nil, ErrNoTasks
	}
	return &recipe, nil
}
