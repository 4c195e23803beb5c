// Package logging builds the zerolog loggers used across ksim and provides
// the verbose step sink for simulation runs.
package logging
