// Package minio stores session archives on MinIO and other
// S3-compatible object stores (Ceph, Garage, SeaweedFS).
//
// # Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "archives", "eqsearch/")
//
// Reads use ranged GetObject requests; Create streams through a pipe
// into a PutObject of unknown length. No AWS SDK required, which keeps
// air-gapped deployments simple.
package minio
