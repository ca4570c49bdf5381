// Package server runs the HTTP mutation API and the gRPC health service of
// the reference server and stops both on SIGINT or SIGTERM.
package server
