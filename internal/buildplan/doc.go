// Package buildplan turns a selection of maps and mods plus build options
// into the ordered task list the command pipeline executes.
//
// Recipes are an alternative source of tasks: a YAML list of tool
// invocations with ${game} and ${tools} placeholders.
package buildplan
