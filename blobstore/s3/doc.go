// Package s3 stores session archives in Amazon S3.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket", func(o *s3.Options) {
//	    o.Prefix = "eqsearch/"
//	    o.Region = "us-east-1"
//	})
//
// Reads use ranged GetObject requests; writes stream through a
// background multipart upload with CRC32C validation.
//
// CommitStore adds DynamoDB commit markers on top of Store so readers
// only ever see archives whose upload finished.
package s3
