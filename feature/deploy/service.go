package deploy

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"binserve/core/storage"

	"github.com/gofiber/fiber/v2/utils"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrUnsafeKey is returned by Pull for object keys that would be written
// outside the local root.
var ErrUnsafeKey = errors.New("unsafe object key")

// uploadWorkers bounds concurrent uploads.
const uploadWorkers = 8

// PushOptions controls Push.
type PushOptions struct {
	// Prune removes objects under the prefix that no longer exist locally.
	Prune bool
}

// PushResult summarizes a push.
type PushResult struct {
	Uploaded int `json:"uploaded"`
	Skipped  int `json:"skipped"`
	Removed  int `json:"removed"`
}

// PullResult summarizes a pull.
type PullResult struct {
	Downloaded int `json:"downloaded"`
}

// Service syncs build output with a bucket.
type Service struct {
	client storage.Client
	bucket string
	prefix string
	region string
	logger *zap.Logger
}

// NewService creates a deploy service for the site stored under cfg's prefix.
func NewService(client storage.Client, cfg storage.Config, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.KeyPrefix(),
		region: cfg.Region,
		logger: logger,
	}
}

// Push uploads every regular file below root. Files whose MD5 matches the
// stored ETag are skipped. Symlinks are never uploaded.
func (s *Service) Push(ctx context.Context, root string, opts PushOptions) (PushResult, error) {
	var result PushResult

	if err := s.ensureBucket(ctx); err != nil {
		return result, err
	}

	remote, err := s.list(ctx)
	if err != nil {
		return result, err
	}

	local := make(map[string]string)
	err = filepath.WalkDir(root, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, name)
		if err != nil {
			return err
		}
		local[s.prefix+filepath.ToSlash(rel)] = name
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	var uploaded, skipped atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadWorkers)
	for key, name := range local {
		g.Go(func() error {
			sum, err := fileMD5(name)
			if err != nil {
				return err
			}
			if etag, ok := remote[key]; ok && etag == sum {
				skipped.Add(1)
				return nil
			}
			if err := s.upload(gctx, name, key); err != nil {
				return err
			}
			uploaded.Add(1)
			return nil
		})
	}
	err = g.Wait()
	result.Uploaded = int(uploaded.Load())
	result.Skipped = int(skipped.Load())
	if err != nil {
		return result, fmt.Errorf("push failed: %w", err)
	}

	if opts.Prune {
		var stale []string
		for key := range remote {
			if _, ok := local[key]; !ok {
				stale = append(stale, key)
			}
		}
		removed, err := s.remove(ctx, stale)
		result.Removed = removed
		if err != nil {
			return result, err
		}
	}

	s.logger.Info("Push completed",
		zap.String("bucket", s.bucket),
		zap.String("prefix", s.prefix),
		zap.Int("uploaded", result.Uploaded),
		zap.Int("skipped", result.Skipped),
		zap.Int("removed", result.Removed))
	return result, nil
}

// Pull downloads every object under the prefix into root.
func (s *Service) Pull(ctx context.Context, root string) (PullResult, error) {
	var result PullResult

	remote, err := s.list(ctx)
	if err != nil {
		return result, err
	}

	for key := range remote {
		rel := strings.TrimPrefix(key, s.prefix)
		if rel == "" || strings.HasSuffix(rel, "/") {
			// Folder markers.
			continue
		}
		if err := checkKey(rel); err != nil {
			return result, err
		}
		if err := s.download(ctx, key, filepath.Join(root, filepath.FromSlash(rel))); err != nil {
			return result, err
		}
		result.Downloaded++
	}

	s.logger.Info("Pull completed",
		zap.String("bucket", s.bucket),
		zap.String("prefix", s.prefix),
		zap.Int("downloaded", result.Downloaded))
	return result, nil
}

func (s *Service) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	s.logger.Info("Created bucket", zap.String("bucket", s.bucket))
	return nil
}

// list returns the ETags of every object under the prefix, keyed by object key.
func (s *Service) list(ctx context.Context) (map[string]string, error) {
	objects := make(map[string]string)
	opts := minio.ListObjectsOptions{Prefix: s.prefix, Recursive: true}
	for obj := range s.client.ListObjects(ctx, s.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", obj.Err)
		}
		objects[obj.Key] = strings.Trim(obj.ETag, `"`)
	}
	return objects, nil
}

func (s *Service) upload(ctx context.Context, name, key string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, s.bucket, key, f, info.Size(), minio.PutObjectOptions{
		ContentType: contentType(name),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	s.logger.Debug("Uploaded object", zap.String("key", key))
	return nil
}

func (s *Service) download(ctx context.Context, key, dest string) error {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", key, err)
	}
	defer obj.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, obj); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to download %s: %w", key, err)
	}
	return f.Close()
}

// remove deletes keys in one batch and returns how many were removed.
func (s *Service) remove(ctx context.Context, keys []string) (int, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	objects := make(chan minio.ObjectInfo, len(keys))
	for _, key := range keys {
		objects <- minio.ObjectInfo{Key: key}
	}
	close(objects)

	var errs []error
	for rerr := range s.client.RemoveObjects(ctx, s.bucket, objects, minio.RemoveObjectsOptions{}) {
		errs = append(errs, fmt.Errorf("failed to remove %s: %w", rerr.ObjectName, rerr.Err))
	}
	return len(keys) - len(errs), errors.Join(errs...)
}

// checkKey rejects keys that are absolute or contain empty, dot, dot-dot,
// backslash or NUL segments.
func checkKey(rel string) error {
	if strings.HasPrefix(rel, "/") || strings.ContainsAny(rel, "\\\x00") {
		return fmt.Errorf("%w: %q", ErrUnsafeKey, rel)
	}
	for _, seg := range strings.Split(rel, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("%w: %q", ErrUnsafeKey, rel)
		}
	}
	return nil
}

func contentType(name string) string {
	if mime := utils.GetMIME(filepath.Ext(name)); mime != "" {
		return mime
	}
	return "application/octet-stream"
}

func fileMD5(name string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
