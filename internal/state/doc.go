// Package state persists launcher preferences and run history in a SQLite
// database under the configured state directory.
//
// The schema is versioned; a database written by an incompatible version is
// rejected with ErrSchemaMismatch rather than migrated in place.
package state
