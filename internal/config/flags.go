package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses the process command line into a [StructuredConfig].
// Positional arguments stay available through [flag.Args].
//
// Server flags:
//
//	-a server address in format [host]:[port]
//	-grpc-address grpc health server address in format [host]:[port]
//	-d database DSN
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "1h", "30m")
//	-request-timeout request timeout (e.g., "30s", "1m")
//
// Client flags:
//
//	-server remote service address
//	-server-grpc remote gRPC health address
//	-local-db local SQLite DSN
//	-login / -password credentials of the session controller
//	-batch-size, -backoff-base, -backoff-max, -max-attempts, -call-timeout
//	-failed-retention, -prune-interval, -strict
//	-probe http|grpc, -probe-interval
//	-log-file client log path
//
// Shared flags:
//
//	-c/-config json file path with configs
//	-hash-key payload integrity hash key
func ParseFlags() (*StructuredConfig, error) {
	return parseFlags(flag.CommandLine, os.Args[1:])
}

func parseFlags(fs *flag.FlagSet, args []string) (*StructuredConfig, error) {
	var serverAddress, grpcServerAddress NetAddress
	cfg := &StructuredConfig{}

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	fs.StringVar(&cfg.Storage.DB.DSN, "d", "", "Database DSN")
	fs.StringVar(&cfg.JSONFilePath, "c", "", "JSON config file path")
	fs.StringVar(&cfg.JSONFilePath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&cfg.App.TokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&cfg.App.TokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&cfg.App.TokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	fs.DurationVar(&cfg.Server.RequestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&cfg.App.HashKey, "hash-key", "", "Security hash key")

	fs.StringVar(&cfg.Adapter.HTTPAddress, "server", "", "Remote service address")
	fs.StringVar(&cfg.Adapter.GRPCAddress, "server-grpc", "", "Remote gRPC health address")
	fs.StringVar(&cfg.Adapter.Login, "login", "", "Account login")
	fs.StringVar(&cfg.Adapter.Password, "password", "", "Account password")
	fs.StringVar(&cfg.Storage.Local.DSN, "local-db", "", "Local SQLite DSN")
	fs.IntVar(&cfg.Sync.BatchSize, "batch-size", 0, "Records claimed per drain step")
	fs.DurationVar(&cfg.Sync.BackoffBase, "backoff-base", 0, "First retry delay")
	fs.DurationVar(&cfg.Sync.BackoffMax, "backoff-max", 0, "Retry delay cap")
	fs.IntVar(&cfg.Sync.MaxAttempts, "max-attempts", 0, "Delivery attempts before giving up")
	fs.DurationVar(&cfg.Sync.CallTimeout, "call-timeout", 0, "Single delivery timeout")
	fs.DurationVar(&cfg.Sync.FailedRetention, "failed-retention", 0, "Prune failed records older than this")
	fs.DurationVar(&cfg.Sync.PruneInterval, "prune-interval", 0, "Retention job interval")
	fs.BoolVar(&cfg.Sync.Strict, "strict", false, "Panic on store integrity violations")
	fs.StringVar(&cfg.Network.Probe, "probe", "", "Reachability prober: http or grpc")
	fs.DurationVar(&cfg.Network.ProbeInterval, "probe-interval", 0, "Reachability probe interval")
	fs.StringVar(&cfg.Log.FilePath, "log-file", "", "Client log file path")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	cfg.Server.HTTPAddress = serverAddress.String()
	cfg.Server.GRPCAddress = grpcServerAddress.String()

	return cfg, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns the default server address.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
