// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so site builds can be published to, and fetched
// from, AWS S3 or a self-hosted MinIO instance. binserve itself always serves
// from local disk; storage is only used by the deploy commands.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: ensure the target bucket exists before a push.
//   - PutObject: uploads one file of the build output.
//   - GetObject: streams an object during a pull.
//   - ListObjects: lists the site's objects under its prefix.
//   - RemoveObjects: prunes objects that disappeared from the build.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
