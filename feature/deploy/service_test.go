package deploy

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"binserve/core/storage"
	"binserve/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func listing(objects ...minio.ObjectInfo) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(objects))
	for _, o := range objects {
		ch <- o
	}
	close(ch)
	return ch
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func newService(client storage.Client) *Service {
	return NewService(client, storage.Config{Bucket: "sites", Prefix: "/my-app/"}, zap.NewNop())
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return root
}

func TestService_Push(t *testing.T) {
	root := writeTree(t, map[string]string{
		"index.html":       "home",
		"about/index.html": "about",
		"assets/app.css":   "body{}",
	})
	require.NoError(t, os.Symlink("/etc/passwd", filepath.Join(root, "leak")))

	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "sites").Return(true, nil)
	client.On("ListObjects", mock.Anything, "sites", minio.ListObjectsOptions{Prefix: "my-app/", Recursive: true}).
		Return(listing(
			minio.ObjectInfo{Key: "my-app/index.html", ETag: `"` + md5Hex("home") + `"`},
			minio.ObjectInfo{Key: "my-app/about/index.html", ETag: `"stale"`},
			minio.ObjectInfo{Key: "my-app/old.html", ETag: `"x"`},
		))

	var mu sync.Mutex
	uploaded := map[string]string{}
	client.On("PutObject", mock.Anything, "sites", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			body, err := io.ReadAll(args.Get(3).(io.Reader))
			assert.NoError(t, err)
			mu.Lock()
			defer mu.Unlock()
			uploaded[args.String(2)] = args.Get(5).(minio.PutObjectOptions).ContentType + " " + string(body)
		}).
		Return(minio.UploadInfo{}, nil)

	var removed []string
	client.On("RemoveObjects", mock.Anything, "sites", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			for obj := range args.Get(2).(<-chan minio.ObjectInfo) {
				removed = append(removed, obj.Key)
			}
		}).
		Return(nil)

	result, err := newService(client).Push(context.Background(), root, PushOptions{Prune: true})
	require.NoError(t, err)

	assert.Equal(t, PushResult{Uploaded: 2, Skipped: 1, Removed: 1}, result)
	assert.Len(t, uploaded, 2)
	assert.Contains(t, uploaded["my-app/about/index.html"], "about")
	assert.True(t, strings.HasPrefix(uploaded["my-app/assets/app.css"], "text/css"))
	assert.NotContains(t, uploaded, "my-app/leak")
	assert.Equal(t, []string{"my-app/old.html"}, removed)
	client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_PushCreatesBucket(t *testing.T) {
	root := writeTree(t, map[string]string{"index.html": "home"})

	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "sites").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "sites", mock.Anything).Return(nil)
	client.On("ListObjects", mock.Anything, "sites", mock.Anything).Return(listing())
	client.On("PutObject", mock.Anything, "sites", "my-app/index.html", mock.Anything, int64(4), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	result, err := newService(client).Push(context.Background(), root, PushOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Uploaded)
	client.AssertExpectations(t)
}

func TestService_PushErrors(t *testing.T) {
	root := writeTree(t, map[string]string{"index.html": "home"})

	t.Run("BucketCheck", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "sites").Return(false, assert.AnError)

		_, err := newService(client).Push(context.Background(), root, PushOptions{})
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("Listing", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "sites").Return(true, nil)
		client.On("ListObjects", mock.Anything, "sites", mock.Anything).Return(listing(minio.ObjectInfo{Err: assert.AnError}))

		_, err := newService(client).Push(context.Background(), root, PushOptions{})
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("Upload", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "sites").Return(true, nil)
		client.On("ListObjects", mock.Anything, "sites", mock.Anything).Return(listing())
		client.On("PutObject", mock.Anything, "sites", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, assert.AnError)

		_, err := newService(client).Push(context.Background(), root, PushOptions{})
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("Prune", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "sites").Return(true, nil)
		client.On("ListObjects", mock.Anything, "sites", mock.Anything).
			Return(listing(
				minio.ObjectInfo{Key: "my-app/index.html", ETag: md5Hex("home")},
				minio.ObjectInfo{Key: "my-app/gone.html"},
			))
		errs := make(chan minio.RemoveObjectError, 1)
		errs <- minio.RemoveObjectError{ObjectName: "my-app/gone.html", Err: assert.AnError}
		close(errs)
		client.On("RemoveObjects", mock.Anything, "sites", mock.Anything, mock.Anything).
			Return((<-chan minio.RemoveObjectError)(errs))

		result, err := newService(client).Push(context.Background(), root, PushOptions{Prune: true})
		assert.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, 0, result.Removed)
		assert.Equal(t, 1, result.Skipped)
	})
}

func TestService_Pull(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "sites", mock.Anything).
		Return(listing(
			minio.ObjectInfo{Key: "my-app/index.html"},
			minio.ObjectInfo{Key: "my-app/blog/post/index.html"},
			minio.ObjectInfo{Key: "my-app/blog/"},
		))
	client.On("GetObject", mock.Anything, "sites", "my-app/index.html", mock.Anything).
		Return(io.NopCloser(strings.NewReader("home")), nil)
	client.On("GetObject", mock.Anything, "sites", "my-app/blog/post/index.html", mock.Anything).
		Return(io.NopCloser(strings.NewReader("post")), nil)

	root := t.TempDir()
	result, err := newService(client).Pull(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Downloaded)

	data, err := os.ReadFile(filepath.Join(root, "blog", "post", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "post", string(data))
	client.AssertExpectations(t)
}

func TestService_PullRejectsUnsafeKeys(t *testing.T) {
	for _, key := range []string{
		"my-app/../escape.html",
		"my-app/a/./b.html",
		"my-app//abs.html",
		"my-app/a\\b.html",
	} {
		t.Run(key, func(t *testing.T) {
			client := new(mocks.Client)
			client.On("ListObjects", mock.Anything, "sites", mock.Anything).
				Return(listing(minio.ObjectInfo{Key: key}))

			_, err := newService(client).Pull(context.Background(), t.TempDir())
			assert.ErrorIs(t, err, ErrUnsafeKey)
			client.AssertNotCalled(t, "GetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}
