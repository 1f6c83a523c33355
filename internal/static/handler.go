package static

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"mime"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Handler は作業ディレクトリ配下のファイルを配信し、"/" だけをマップファイルに書き換える
type Handler struct {
	fs     http.FileSystem
	files  http.Handler
	target string // 先頭が "/" のURLパス
}

// NewHandler は root を基準にファイルを配信し、"/" を target に書き換えるHandlerを作成する
func NewHandler(root, target string) *Handler {
	dir := http.Dir(root)

	return &Handler{
		fs:     dir,
		files:  http.FileServer(dir),
		target: path.Join("/", filepath.ToSlash(target)),
	}
}

// Resolve はリクエストパスを配信対象のパスに変換する
// 比較するのはパスのみで、クエリ文字列は判定に含めない
func (h *Handler) Resolve(urlPath string) string {
	if urlPath == "/" {
		return h.target
	}
	return urlPath
}

// ServeHTTP は http.Handler の実装
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, r, http.StatusNotImplemented, fmt.Sprintf("未対応のメソッドです (%s)", r.Method))
		return
	}

	name := h.Resolve(r.URL.Path)
	if name != r.URL.Path {
		r = rewritePath(r, name)
	}

	f, err := h.fs.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeError(w, r, http.StatusNotFound, "ファイルが見つかりません")
			return
		}
		// 権限エラーなどは標準のファイルサーバーに任せる
		h.files.ServeHTTP(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "ファイル情報の取得に失敗しました")
		return
	}

	// ディレクトリの扱い（index.html・一覧・リダイレクト）と
	// 末尾スラッシュ付きのファイル指定は標準のファイルサーバーと同じ
	if info.IsDir() || strings.HasSuffix(name, "/") {
		h.files.ServeHTTP(w, r)
		return
	}

	w.Header().Set("Content-Type", contentType(info.Name(), f))
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// contentType は拡張子からContent-Typeを決め、不明な場合は内容から判定する
func contentType(name string, f io.ReadSeeker) string {
	if ctype := mime.TypeByExtension(filepath.Ext(name)); ctype != "" {
		return ctype
	}

	mtype, err := mimetype.DetectReader(f)
	if _, seekErr := f.Seek(0, io.SeekStart); seekErr != nil {
		log.Printf("ファイル位置の巻き戻しに失敗 (%s): %v", name, seekErr)
	}
	if err != nil {
		return "application/octet-stream"
	}

	return mtype.String()
}

// rewritePath はパスだけを差し替えたリクエストのコピーを返す
func rewritePath(r *http.Request, name string) *http.Request {
	r2 := new(http.Request)
	*r2 = *r
	u := *r.URL
	u.Path = name
	u.RawPath = ""
	r2.URL = &u
	return r2
}
