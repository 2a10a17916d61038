// Package server holds the HTTP server configuration.
//
// The main application entry point handles the server startup; this package
// only defines the configuration structure embedded by core/config.
//
// # Configuration
//
// The Config struct defines the HTTP port and the API key used by the
// auth middleware. An empty API key disables authentication.
package server
