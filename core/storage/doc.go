// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so that the object
// backed manifest queue can be tested against core/storage/mocks. Both AWS S3
// and self-hosted MinIO are supported.
//
// # Operations
//
//   - BucketExists / MakeBucket: prepare the queue bucket.
//   - PutObject / GetObject / StatObject: write, read and probe queue objects.
//   - ListObjects: list one state prefix.
//   - CopyObject / RemoveObject: move an object between state prefixes.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "ads-manifests")
package storage
