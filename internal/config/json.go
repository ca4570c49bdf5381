package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the JSON file layout of [StructuredConfig].
// Durations accept both strings ("30s") and nanosecond numbers.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
		HashKey       string   `json:"hash_key"`
		Version       string   `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Local struct {
			DSN string `json:"dsn"`
		} `json:"local,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		GRPCAddress    string   `json:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		GRPCAddress    string   `json:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout"`
		Login          string   `json:"login"`
		Password       string   `json:"password"`
	} `json:"adapter,omitempty"`

	Sync struct {
		BatchSize       int      `json:"batch_size"`
		BackoffBase     Duration `json:"backoff_base"`
		BackoffMax      Duration `json:"backoff_max"`
		MaxAttempts     int      `json:"max_attempts"`
		CallTimeout     Duration `json:"call_timeout"`
		FailedRetention Duration `json:"failed_retention"`
		PruneInterval   Duration `json:"prune_interval"`
		Strict          bool     `json:"strict"`
	} `json:"sync,omitempty"`

	Network struct {
		ProbeInterval Duration `json:"probe_interval"`
		Probe         string   `json:"probe"`
	} `json:"network,omitempty"`

	Log struct {
		FilePath string `json:"file_path"`
	} `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:  jsonCfg.App.TokenSignKey,
			TokenIssuer:   jsonCfg.App.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.App.TokenDuration),
			HashKey:       jsonCfg.App.HashKey,
			Version:       jsonCfg.App.Version,
		},
		Storage: Storage{
			DB:    DB{DSN: jsonCfg.Storage.DB.DSN},
			Local: Local{DSN: jsonCfg.Storage.Local.DSN},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			GRPCAddress:    jsonCfg.Server.GRPCAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			GRPCAddress:    jsonCfg.Adapter.GRPCAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			Login:          jsonCfg.Adapter.Login,
			Password:       jsonCfg.Adapter.Password,
		},
		Sync: Sync{
			BatchSize:       jsonCfg.Sync.BatchSize,
			BackoffBase:     time.Duration(jsonCfg.Sync.BackoffBase),
			BackoffMax:      time.Duration(jsonCfg.Sync.BackoffMax),
			MaxAttempts:     jsonCfg.Sync.MaxAttempts,
			CallTimeout:     time.Duration(jsonCfg.Sync.CallTimeout),
			FailedRetention: time.Duration(jsonCfg.Sync.FailedRetention),
			PruneInterval:   time.Duration(jsonCfg.Sync.PruneInterval),
			Strict:          jsonCfg.Sync.Strict,
		},
		Network: Network{
			ProbeInterval: time.Duration(jsonCfg.Network.ProbeInterval),
			Probe:         jsonCfg.Network.Probe,
		},
		Log:          Log{FilePath: jsonCfg.Log.FilePath},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
