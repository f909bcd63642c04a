// Package server holds the HTTP server configuration.
//
// The start command reads the listen port from it, and the auth middleware
// is enabled only when an API key is configured.
package server
