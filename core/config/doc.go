// Package config provides configuration management for the sync service.
//
// It utilizes Viper for loading configuration from environment variables and an optional
// .env file. Every section is owned by the package it configures and registers its
// defaults through `default` struct tags.
//
// # Configuration Structure
//
//   - Server: status API port, API key
//   - Log: logging level and format
//   - Sync: cycle interval, drift detection
//   - Source: membership directory URL and credentials
//   - Hikvision: reader URLs and digest credentials
//   - State: state backend (file, object, database)
//   - Storage: S3/MinIO settings for the object backend
//   - Database: MySQL/SQLite settings for the database backend
//
// Environment variables map to nested keys, e.g. HIKVISION_READER_URLS -> hikvision.reader_urls.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sync.Interval())
package config
