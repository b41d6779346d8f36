// Package cli implements the interactive TodoKeeper client: a small REPL
// over the use-case layer, plus the composition point that selects the
// storage backend and wires adapters into services.
package cli
