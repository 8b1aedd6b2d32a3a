// Package storage wraps the MinIO Go client for the object state backend.
//
// The Client interface covers the few calls needed to keep the sync state
// document in a bucket, and is mocked in core/storage/mocks for unit tests.
// It works against AWS S3 and self-hosted MinIO alike.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	backend := state.NewObjectBackend(client, cfg.Storage.Bucket, "sync-state.json")
package storage
