// Package state persists the last applied fingerprint of every member.
//
// Store is the single owner of the key→fingerprint mapping. It loads lazily and
// at most once per process (concurrent first callers share one load through
// singleflight), updates entries in memory, and rewrites the whole mapping on Save.
//
// # Backends
//
//   - file: indented JSON object on local disk (default).
//   - object: the same document in an S3/MinIO bucket (core/storage).
//   - database: the sync_states table through GORM (core/database).
//
// # Usage
//
//	backend, _ := state.NewFileBackend("")
//	store := state.NewStore(backend)
//	fp, ok, err := store.GetFingerprint(ctx, "12345")
//	store.SetFingerprint("12345", fp)
//	err = store.Save(ctx)
package state
