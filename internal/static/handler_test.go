package static

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTarget = "output/comparison/results_map.html"

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

// newTestRoot はテスト用の作業ディレクトリを作成する
func newTestRoot(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	files := map[string][]byte{
		testTarget:          []byte("<html>MAP</html>"),
		"assets/style.css":  []byte("body { margin: 0; }"),
		"assets/tiles/tile": pngHeader,
		"notes.txt":         []byte("hello"),
	}
	for name, data := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, data, 0o644))
	}

	return root
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHandler_Resolve(t *testing.T) {
	h := NewHandler(".", testTarget)

	testCases := []struct {
		name     string
		path     string
		expected string
	}{
		{"ルートは書き換える", "/", "/" + testTarget},
		{"それ以外はそのまま", "/assets/style.css", "/assets/style.css"},
		{"マップファイルそのもの", "/" + testTarget, "/" + testTarget},
		{"ルート以外のディレクトリ", "/output/", "/output/"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, h.Resolve(tc.path))
		})
	}
}

func TestNewHandler_TargetNormalization(t *testing.T) {
	assert.Equal(t, "/maps/a.html", NewHandler(".", "maps/a.html").Resolve("/"))
	assert.Equal(t, "/maps/a.html", NewHandler(".", "./maps/a.html").Resolve("/"))
}

func TestHandler_Root(t *testing.T) {
	h := NewHandler(newTestRoot(t), testTarget)

	t.Run("ルートはマップファイルを返す", func(t *testing.T) {
		rec := serve(h, http.MethodGet, "/")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "<html>MAP</html>", rec.Body.String())
		assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html"))
	})

	t.Run("クエリ付きでも書き換える", func(t *testing.T) {
		rec := serve(h, http.MethodGet, "/?zoom=3")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "<html>MAP</html>", rec.Body.String())
	})

	t.Run("マップファイルを直接指定", func(t *testing.T) {
		rec := serve(h, http.MethodGet, "/"+testTarget)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "<html>MAP</html>", rec.Body.String())
	})
}

func TestHandler_RootMissingTarget(t *testing.T) {
	h := NewHandler(t.TempDir(), testTarget)

	rec := serve(h, http.MethodGet, "/")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "404")
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestHandler_StaticFiles(t *testing.T) {
	h := NewHandler(newTestRoot(t), testTarget)

	testCases := []struct {
		name        string
		path        string
		status      int
		body        string
		contentType string
	}{
		{"CSS", "/assets/style.css", http.StatusOK, "body { margin: 0; }", "text/css"},
		{"テキスト", "/notes.txt", http.StatusOK, "hello", "text/plain"},
		{"拡張子なしは内容から判定", "/assets/tiles/tile", http.StatusOK, string(pngHeader), "image/png"},
		{"存在しないファイル", "/does-not-exist.html", http.StatusNotFound, "", "text/html; charset=utf-8"},
		{"存在しないディレクトリ配下", "/missing/dir/file.js", http.StatusNotFound, "", "text/html; charset=utf-8"},
		{"ファイルの下のパス", "/notes.txt/child", http.StatusNotFound, "", "text/html; charset=utf-8"},
		{"末尾スラッシュ付きのファイル", "/notes.txt/", http.StatusMovedPermanently, "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(h, http.MethodGet, tc.path)

			assert.Equal(t, tc.status, rec.Code)
			ctype := rec.Header().Get("Content-Type")
			assert.True(t, strings.HasPrefix(ctype, tc.contentType), "Content-Type: %s", ctype)
			if tc.body != "" {
				assert.Equal(t, tc.body, rec.Body.String())
			}
		})
	}
}

func TestHandler_Directory(t *testing.T) {
	h := NewHandler(newTestRoot(t), testTarget)

	t.Run("一覧を返す", func(t *testing.T) {
		rec := serve(h, http.MethodGet, "/assets/")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "style.css")
	})

	t.Run("末尾スラッシュなしはリダイレクト", func(t *testing.T) {
		rec := serve(h, http.MethodGet, "/assets")

		assert.Equal(t, http.StatusMovedPermanently, rec.Code)
		assert.Equal(t, "assets/", rec.Header().Get("Location"))
	})
}

func TestHandler_FileWithTrailingSlash(t *testing.T) {
	h := NewHandler(newTestRoot(t), testTarget)

	testCases := []struct {
		name     string
		path     string
		location string
	}{
		{"テキスト", "/notes.txt/", "../notes.txt"},
		{"マップファイル", "/" + testTarget + "/", "../results_map.html"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(h, http.MethodGet, tc.path)

			assert.Equal(t, http.StatusMovedPermanently, rec.Code)
			assert.Equal(t, tc.location, rec.Header().Get("Location"))
			assert.NotContains(t, rec.Body.String(), "MAP")
			assert.NotEqual(t, "hello", rec.Body.String())
		})
	}
}

func TestHandler_Methods(t *testing.T) {
	h := NewHandler(newTestRoot(t), testTarget)

	t.Run("HEADはボディなし", func(t *testing.T) {
		rec := serve(h, http.MethodHead, "/")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.Equal(t, "16", rec.Header().Get("Content-Length"))
	})

	t.Run("HEADの404もボディなし", func(t *testing.T) {
		rec := serve(h, http.MethodHead, "/does-not-exist.html")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method+"は未対応", func(t *testing.T) {
			rec := serve(h, method, "/")

			assert.Equal(t, http.StatusNotImplemented, rec.Code)
			assert.Contains(t, rec.Body.String(), method)
		})
	}
}

func TestHandler_PathTraversal(t *testing.T) {
	root := newTestRoot(t)
	secret := filepath.Join(filepath.Dir(root), "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("secret"), 0o644))
	t.Cleanup(func() { _ = os.Remove(secret) })

	h := NewHandler(root, testTarget)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.URL.Path = "/../secret.txt"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.NotEqual(t, "secret", rec.Body.String())
}

func TestContentType(t *testing.T) {
	testCases := []struct {
		name     string
		file     string
		data     string
		expected string
	}{
		{"拡張子で判定", "index.html", "plain text", "text/html"},
		{"JSON", "data.json", "{}", "application/json"},
		{"内容から判定", "page.unknownext", "<!DOCTYPE html><html></html>", "text/html"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := strings.NewReader(tc.data)

			ctype := contentType(tc.file, r)
			assert.True(t, strings.HasPrefix(ctype, tc.expected), "Content-Type: %s", ctype)

			// 判定後は先頭に戻っている
			rest, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tc.data, string(rest))
		})
	}
}
