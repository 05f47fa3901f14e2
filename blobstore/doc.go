// Package blobstore abstracts storage for archived search sessions.
//
// An archive is an immutable snapshot file written once when a search
// finishes and read back whole when a session is reloaded. BlobStore
// implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, mmap-backed reads, atomic rename on write
//   - MemoryStore: in-memory, for tests
//   - s3.Store: Amazon S3 with range reads and streaming multipart uploads
//   - s3.CommitStore: S3 plus DynamoDB commit markers for two-phase publish
//   - minio.Store: MinIO and other S3-compatible endpoints
//
// # Custom Implementations
//
// Implement BlobStore to support other backends. Cloud backends should
// serve ReadRange with a ranged request rather than a full download.
package blobstore
