// Package deploy publishes a site's build output to an S3-compatible bucket
// and fetches it back.
//
// Objects live under "<storage.prefix>/<relative path>". Push uploads every
// regular file below the local root, skipping files whose MD5 already matches
// the stored ETag, and with Prune removes objects that disappeared from the
// build. Pull writes every object under the prefix below a local root and
// refuses keys that would land outside it.
//
// binserve never serves from the bucket: Pull is meant to run before start.
package deploy
