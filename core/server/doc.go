// Package server holds the HTTP status server configuration.
//
// The start command runs the scheduler and, when enabled, a small Fiber server
// exposing health, sync status and a manual sync trigger.
//
// # Configuration
//
// The Config struct defines whether the server runs, its port, the API key
// and the graceful shutdown budget.
package server
