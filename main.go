package main

import (
	"context"
	"log"

	"mapview/internal/browser"
	"mapview/internal/config"
	"mapview/internal/server"
)

func main() {
	// 設定を読み込む（固定値）
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	// サーバーを作成
	srv := server.New(cfg, browser.NewSystemOpener())

	// サーバーを起動
	if err := srv.Start(context.Background()); err != nil {
		log.Fatalf("サーバーの起動に失敗しました: %v", err)
	}
}
