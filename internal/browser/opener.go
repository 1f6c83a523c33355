// Package browser はデフォルトのWebブラウザの起動を担う
//
// 起動はベストエフォートで、失敗してもサーバーの動作には影響させない。
package browser

import (
	"io"
	"log"

	pkgbrowser "github.com/pkg/browser"
)

// Opener は指定されたURLをブラウザで開く
//
//go:generate mockgen -source opener.go -destination mock/opener.go
type Opener interface {
	Open(url string) error
}

var _ Opener = (*SystemOpener)(nil)

// SystemOpener はOSのデフォルトブラウザを使うOpener実装
type SystemOpener struct{}

// NewSystemOpener は新しいSystemOpenerを作成する
// 起動コマンドの出力はコンソールに流さない
func NewSystemOpener() *SystemOpener {
	pkgbrowser.Stdout = io.Discard
	pkgbrowser.Stderr = io.Discard
	return &SystemOpener{}
}

// Open はURLをデフォルトブラウザで開く
func (o *SystemOpener) Open(url string) error {
	return pkgbrowser.OpenURL(url)
}

// Launch はブラウザを別ゴルーチンで起動する
// 結果は返り値のチャンネルに一度だけ送られる。呼び出し側は待たなくてよい
func Launch(o Opener, url string) <-chan error {
	done := make(chan error, 1)

	if o == nil {
		done <- nil
		close(done)
		return done
	}

	go func() {
		defer close(done)

		err := o.Open(url)
		if err != nil {
			log.Printf("ブラウザの起動に失敗しました: %v", err)
		}
		done <- err
	}()

	return done
}
