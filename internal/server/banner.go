package server

import (
	"fmt"
	"io"
	"strings"
)

const bannerWidth = 80

// writeBanner は起動時のメッセージを出力する
func writeBanner(w io.Writer, url string) {
	sep := strings.Repeat("=", bannerWidth)

	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, "ローカルWebサーバーを起動しています...")
	fmt.Fprintln(w, "ブラウザが自動で開かない場合は、次のURLにアクセスしてください:")
	fmt.Fprintln(w, url)
	fmt.Fprintln(w, "サーバーを停止するには Ctrl+C を押してください。")
	fmt.Fprintln(w, sep)
}
