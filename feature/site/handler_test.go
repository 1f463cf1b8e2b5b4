package site

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"binserve/core/resolver"
	"binserve/core/server"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type miss struct {
	path string
	kind string
}

type fakeRecorder struct {
	mu     sync.Mutex
	misses []miss
}

func (r *fakeRecorder) Record(path, kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.misses = append(r.misses, miss{path: path, kind: kind})
}

func (r *fakeRecorder) all() []miss {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]miss(nil), r.misses...)
}

func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return root
}

var defaultFiles = map[string]string{
	"index.html":       "home",
	"about/index.html": "about",
	"404.html":         "not found page",
	"assets/app.css":   "body{}",
	"LICENSE":          "mit",
}

func defaultServer() server.Config {
	return server.Config{
		RedirectStatus: server.RedirectPermanent,
		CacheControl:   "public, max-age=0, must-revalidate",
	}
}

func setupTestApp(t *testing.T, files map[string]string, site resolver.Config, srv server.Config) (*fiber.App, *fakeRecorder, string) {
	t.Helper()
	return setupTestAppFS(t, files, site, srv, func(string) resolver.FS { return nil })
}

// setupTestAppFS is setupTestApp with lookups going through the FS built for
// the site root.
func setupTestAppFS(t *testing.T, files map[string]string, site resolver.Config, srv server.Config, fsys func(root string) resolver.FS) (*fiber.App, *fakeRecorder, string) {
	t.Helper()
	site.Root = writeSite(t, files)
	r, err := resolver.New(site, fsys(site.Root))
	require.NoError(t, err)

	rec := &fakeRecorder{}
	app := fiber.New()
	f := NewFeature(r, srv, rec, zap.NewNop())
	require.NoError(t, f.Load(app))
	return app, rec, site.Root
}

func do(t *testing.T, app *fiber.App, method, target string) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHandler_Serve(t *testing.T) {
	app, rec, _ := setupTestApp(t, defaultFiles, resolver.Config{DirectoryFormat: true}, defaultServer())

	t.Run("Index", func(t *testing.T) {
		resp, body := do(t, app, "GET", "/")
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "home", body)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
		assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
		assert.Equal(t, "public, max-age=0, must-revalidate", resp.Header.Get("Cache-Control"))
		assert.NotEmpty(t, resp.Header.Get("Last-Modified"))
	})

	t.Run("Asset", func(t *testing.T) {
		resp, body := do(t, app, "GET", "/assets/app.css")
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "body{}", body)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/css")
	})

	t.Run("NoExtension", func(t *testing.T) {
		resp, body := do(t, app, "GET", "/LICENSE")
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "mit", body)
		assert.Equal(t, "application/octet-stream", resp.Header.Get("Content-Type"))
	})

	t.Run("DirectoryRedirect", func(t *testing.T) {
		resp, _ := do(t, app, "GET", "/about")
		assert.Equal(t, 301, resp.StatusCode)
		assert.Equal(t, "/about/", resp.Header.Get("Location"))
	})

	t.Run("RedirectKeepsQuery", func(t *testing.T) {
		resp, _ := do(t, app, "GET", "/about?lang=en&x=1")
		assert.Equal(t, 301, resp.StatusCode)
		assert.Equal(t, "/about/?lang=en&x=1", resp.Header.Get("Location"))
	})

	t.Run("DirectoryIndex", func(t *testing.T) {
		resp, body := do(t, app, "GET", "/about/")
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "about", body)
	})

	t.Run("NotFound", func(t *testing.T) {
		resp, body := do(t, app, "GET", "/missing")
		assert.Equal(t, 404, resp.StatusCode)
		assert.Equal(t, "not found page", body)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	})

	t.Run("NotFoundDocumentDirectly", func(t *testing.T) {
		resp, body := do(t, app, "GET", "/404.html")
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "not found page", body)
	})

	t.Run("Traversal", func(t *testing.T) {
		resp, body := do(t, app, "GET", "/../../etc/passwd")
		assert.Equal(t, 400, resp.StatusCode)
		assert.Contains(t, body, "400 Bad Request")
	})

	t.Run("EncodedTraversal", func(t *testing.T) {
		resp, _ := do(t, app, "GET", "/%2e%2e/secret")
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("Head", func(t *testing.T) {
		resp, body := do(t, app, "HEAD", "/")
		assert.Equal(t, 200, resp.StatusCode)
		assert.Empty(t, body)
	})

	t.Run("MethodNotAllowed", func(t *testing.T) {
		resp, _ := do(t, app, "POST", "/")
		assert.Equal(t, 405, resp.StatusCode)
		assert.Equal(t, "GET, HEAD", resp.Header.Get("Allow"))
	})

	misses := rec.all()
	assert.Contains(t, misses, miss{path: "/missing", kind: "not_found"})
	assert.Contains(t, misses, miss{path: "/../../etc/passwd", kind: "invalid"})
	assert.NotContains(t, misses, miss{path: "/about/", kind: "not_found"})
}

func TestHandler_RedirectStatus(t *testing.T) {
	srv := defaultServer()
	srv.RedirectStatus = server.RedirectKeep
	app, _, _ := setupTestApp(t, defaultFiles, resolver.Config{DirectoryFormat: true}, srv)

	resp, _ := do(t, app, "GET", "/about")
	assert.Equal(t, 308, resp.StatusCode)
	assert.Equal(t, "/about/", resp.Header.Get("Location"))
}

func TestHandler_DisguiseInvalid(t *testing.T) {
	srv := defaultServer()
	srv.DisguiseInvalid = true
	app, rec, _ := setupTestApp(t, defaultFiles, resolver.Config{DirectoryFormat: true}, srv)

	resp, body := do(t, app, "GET", "/../../etc/passwd")
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "not found page", body)
	assert.Equal(t, []miss{{path: "/../../etc/passwd", kind: "invalid"}}, rec.all())
}

func TestHandler_BuiltinNotFound(t *testing.T) {
	app, _, _ := setupTestApp(t, map[string]string{"index.html": "home"}, resolver.Config{DirectoryFormat: true}, defaultServer())

	resp, body := do(t, app, "GET", "/missing")
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, notFoundBody, body)
}

func TestHandler_BasePath(t *testing.T) {
	files := map[string]string{
		"index.html":       "home",
		"guide/index.html": "guide",
		"404.html":         "nf",
	}
	app, _, _ := setupTestApp(t, files, resolver.Config{DirectoryFormat: true, BasePath: "/docs/"}, defaultServer())

	resp, body := do(t, app, "GET", "/docs/guide/")
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "guide", body)

	resp, _ = do(t, app, "GET", "/docs/guide")
	assert.Equal(t, 301, resp.StatusCode)
	assert.Equal(t, "/docs/guide/", resp.Header.Get("Location"))

	resp, body = do(t, app, "GET", "/guide/")
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "nf", body)
}

func TestHandler_FlatFormat(t *testing.T) {
	files := map[string]string{
		"index.html":      "home",
		"about.html":      "flat about",
		"blog/index.html": "blog",
	}
	app, _, _ := setupTestApp(t, files, resolver.Config{DirectoryFormat: false}, defaultServer())

	resp, body := do(t, app, "GET", "/about")
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "flat about", body)

	resp, body = do(t, app, "GET", "/blog/")
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "blog", body)
}

func TestHandler_FilesystemError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	files := map[string]string{
		"index.html":          "home",
		"private/secret.html": "s",
	}
	app, rec, root := setupTestApp(t, files, resolver.Config{DirectoryFormat: true}, defaultServer())

	private := filepath.Join(root, "private")
	require.NoError(t, os.Chmod(private, 0))
	t.Cleanup(func() { _ = os.Chmod(private, 0o755) })

	resp, body := do(t, app, "GET", "/private/secret.html")
	assert.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, errorBody, body)
	assert.Empty(t, rec.all())
}

// faultFS serves the real filesystem, except for overridden file names.
type faultFS struct {
	resolver.OSFS
	evalErr  map[string]error
	evalTo   map[string]string
	statInfo map[string]fs.FileInfo
}

func (f faultFS) EvalSymlinks(name string) (string, error) {
	base := filepath.Base(name)
	if err, ok := f.evalErr[base]; ok {
		return "", err
	}
	if to, ok := f.evalTo[base]; ok {
		return to, nil
	}
	return f.OSFS.EvalSymlinks(name)
}

func (f faultFS) Stat(name string) (fs.FileInfo, error) {
	if info, ok := f.statInfo[filepath.Base(name)]; ok {
		return info, nil
	}
	return f.OSFS.Stat(name)
}

func TestHandler_LookupFaults(t *testing.T) {
	ioErr := errors.New("input/output error")
	files := map[string]string{
		"index.html": "home",
		"page.html":  "page",
		"404.html":   "not found page",
	}

	t.Run("FileLookup", func(t *testing.T) {
		app, rec, _ := setupTestAppFS(t, files, resolver.Config{DirectoryFormat: true}, defaultServer(),
			func(string) resolver.FS { return faultFS{evalErr: map[string]error{"page.html": ioErr}} })

		resp, body := do(t, app, "GET", "/page.html")
		assert.Equal(t, 500, resp.StatusCode)
		assert.Equal(t, errorBody, body)
		assert.Empty(t, rec.all())
	})

	t.Run("NotFoundDocumentLookup", func(t *testing.T) {
		app, rec, _ := setupTestAppFS(t, files, resolver.Config{DirectoryFormat: true}, defaultServer(),
			func(string) resolver.FS { return faultFS{evalErr: map[string]error{"404.html": ioErr}} })

		resp, body := do(t, app, "GET", "/missing")
		assert.Equal(t, 500, resp.StatusCode)
		assert.Equal(t, errorBody, body)
		assert.Empty(t, rec.all())

		resp, body = do(t, app, "GET", "/")
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "home", body)
	})

	t.Run("NotFoundDocumentOpen", func(t *testing.T) {
		// The 404 document resolves to a path that cannot be opened.
		app, _, _ := setupTestAppFS(t, files, resolver.Config{DirectoryFormat: true}, defaultServer(),
			func(root string) resolver.FS {
				info, err := os.Stat(filepath.Join(root, "index.html"))
				require.NoError(t, err)
				return faultFS{
					evalTo:   map[string]string{"404.html": filepath.Join(root, "index.html", "404.html")},
					statInfo: map[string]fs.FileInfo{"404.html": info},
				}
			})

		resp, body := do(t, app, "GET", "/missing")
		assert.Equal(t, 500, resp.StatusCode)
		assert.Equal(t, errorBody, body)
	})
}
