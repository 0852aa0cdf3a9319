// Command modlauncher builds, links, runs and converts assets for user maps
// and mods with the game's mod tools.
//
// Every pipeline run holds a lock file in the state directory so two
// launchers never drive the tools at the same time. Tool output streams to
// stdout as it arrives; diagnostic logs go to stderr and the log directory.
package main
