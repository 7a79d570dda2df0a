// Package metastore loads and publishes block-metadata snapshots.
//
// Each columnar file of a dataset has one snapshot (see catalog.FileMeta)
// stored under the dataset's "_blockmeta/" prefix in a blob store. Load
// lists the prefix, fetches the snapshots concurrently, and assembles the
// immutable block catalog; snapshots are always combined in lexical name
// order so that block ordinals are stable across processes reading the
// same metadata.
//
// Stores exist for the local file system, memory (tests), Amazon S3
// (metastore/s3) and MinIO or other S3-compatible object storage
// (metastore/minio).
package metastore
