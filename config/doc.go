// Package config loads application configuration for fused pipelines.
//
// Values come from a config.yml found next to the service (or given with
// WithConfigFile), then from environment variables, including those of a
// resolved .env file. Environment keys map onto nested config keys:
// BUFFER_SIZE sets buffer.size.
//
// # Usage
//
//	var cfg config.StreamConfig
//	if err := config.Load("etl", &cfg); err != nil {
//	    return err
//	}
//	logger.Init(cfg.Logging)
//	p := pipeline.BufferFromConfig(src, cfg.Buffer)
package config
