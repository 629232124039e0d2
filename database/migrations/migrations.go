// Package migrations contains all schema migration files. Each file
// registers itself from init(); cmd/vastra imports this package for its
// side effects so the registry is populated before the CLI runs.
package migrations
