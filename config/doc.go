// Package config loads engine, logging and metrics settings for balance
// programs.
//
// Settings come from an optional YAML, TOML or JSON file (the format follows
// the file extension) overlaid by environment variables prefixed BALANCE_,
// with dots replaced by underscores:
//
//	BALANCE_ENGINE_STRATEGY=interior-point
//	BALANCE_LOG_LEVEL=debug
//
// Every value is validated before use, so EngineOptions never hands an
// out-of-range value to the panicking engine.WithX constructors.
//
// Example file:
//
//	engine:
//	  strategy: auto
//	  tolerance: 1e-9
//	  time_limit: 30s
//	  sensitivity: true
//	log:
//	  level: info
//	  format: json
//	  file: /var/log/balance/solve.log
//	metrics:
//	  namespace: balance
package config
