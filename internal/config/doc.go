// Package config provides configuration loading, merging, and validation
// facilities for the client and the reference server.
//
// Configuration is assembled from multiple sources. They are merged with
// mergo in the following order, the first non-zero value of a field wins:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// The main entry points are [GetServerConfig] for the reference server and
// [GetClientConfig] for the client, which also fills sync engine defaults.
package config
