package main

// DefaultDBPath is the default path for the view database.
const DefaultDBPath = "~/.tokq/views.db"

// Environment variables consulted when the matching flag is not set.
const (
	EnvCatalog = "TOKQ_CATALOG"
	EnvDB      = "TOKQ_DB"
)

// Check modes accepted by the check command.
const (
	ModeNumber    = "number"
	ModePredicate = "predicate"
	ModeTime      = "time"
	ModeOrder     = "order"
	ModeFilter    = "filter"
)

var checkModes = []string{ModeNumber, ModePredicate, ModeTime, ModeOrder, ModeFilter}
