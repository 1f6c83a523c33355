package static

import (
	"embed"
	"html/template"
	"log"
	"net/http"
)

//go:embed templates/error.html
var templatesFS embed.FS

var errorPage = template.Must(template.ParseFS(templatesFS, "templates/error.html"))

// errorPageData はエラーページに埋め込む値
type errorPageData struct {
	Code    int
	Status  string
	Message string
	Path    string
}

// writeError はHTMLのエラーページを返す
// HEADリクエストにはヘッダーのみを返す
func writeError(w http.ResponseWriter, r *http.Request, code int, message string) {
	h := w.Header()
	h.Del("Content-Length")
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)

	if r.Method == http.MethodHead {
		return
	}

	data := errorPageData{
		Code:    code,
		Status:  http.StatusText(code),
		Message: message,
		Path:    r.URL.Path,
	}
	if err := errorPage.Execute(w, data); err != nil {
		log.Printf("エラーページの書き込みに失敗: %v", err)
	}
}
