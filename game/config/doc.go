// Package config holds the runtime configuration of the memory match server.
//
// The config package handles:
//   - Defaults for the HTTP listener, logging and session expiry
//   - Game rules passed to every engine (difficulty, mismatch delay, tick interval, seed)
//   - Validation with wrapped ErrInvalidConfig errors
//   - Optional JSON configuration files
//
// Values normally come from command line flags and environment variables
// (see main.go); a JSON file can provide the same fields:
//
//	{
//	  "port": 9090,
//	  "difficulty": "hard",
//	  "mismatch_delay": "750ms",
//	  "session_ttl": "2h",
//	  "ngrok": {"enabled": false}
//	}
//
// Usage:
//
//	cfg, err := config.Load("memory-match.json")
//	if errors.Is(err, config.ErrConfigNotFound) {
//		cfg = config.Default()
//	}
//	manager := session.NewManager(cfg.GameConfig(), hub.Renderer)
package config
