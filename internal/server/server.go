package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mapview/internal/browser"
	"mapview/internal/config"
)

// Server はマップを配信するHTTPサーバーを管理する構造体
type Server struct {
	config     *config.Config
	httpServer *http.Server
	opener     browser.Opener
	out        io.Writer
	listener   net.Listener
}

// New は新しいServerインスタンスを作成する
// opener が nil の場合はブラウザを起動しない
func New(cfg *config.Config, opener browser.Opener) *Server {
	return &Server{
		config: cfg,
		opener: opener,
		out:    os.Stdout,
		httpServer: &http.Server{
			Handler:      newRouter(cfg),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
}

// SetOutput は起動メッセージの出力先を変更する
func (s *Server) SetOutput(w io.Writer) {
	s.out = w
}

// Handler はリクエストハンドラを返す
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Listen は設定されたアドレスでTCPソケットをバインドする
// ポートが使用中の場合はエラーを返し、別のポートは試さない
func (s *Server) Listen() error {
	if s.listener != nil {
		return errors.New("サーバーは既にリッスンしています")
	}

	ln, err := net.Listen("tcp", s.config.ServerAddress())
	if err != nil {
		return fmt.Errorf("ソケットのバインドに失敗: %w", err)
	}
	s.listener = ln

	return nil
}

// Addr はバインドされたアドレスを返す
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// URL はブラウザで開くルートURLを返す
// ポート0でバインドした場合は実際に割り当てられたポートを使う
func (s *Server) URL() string {
	if tcpAddr, ok := s.Addr().(*net.TCPAddr); ok {
		return fmt.Sprintf("http://localhost:%d", tcpAddr.Port)
	}
	return s.config.RootURL()
}

// Serve はバインド済みのソケットで接続を受け付け続ける
// Shutdown されるまで戻らない
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("サーバーがリッスンしていません")
	}

	if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("サーバーの実行に失敗: %w", err)
	}

	return nil
}

// Start はサーバーを起動する
// バインド、起動メッセージ、ブラウザ起動の順に行い、シグナルかコンテキストのキャンセルまでブロックする
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	writeBanner(s.out, s.URL())

	// ブラウザの起動結果は待たない
	browser.Launch(s.opener, s.URL())

	serveCh := make(chan error, 1)
	go func() {
		log.Printf("HTTPサーバーを起動しています: %s", s.listener.Addr())
		serveCh <- s.Serve()
	}()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
		log.Println("コンテキストがキャンセルされました")
	case sig := <-sigCh:
		log.Printf("シグナルを受信しました: %v", sig)
	case err := <-serveCh:
		return err
	}

	return s.Shutdown()
}

// Shutdown はサーバーを停止し、ソケットを解放する
func (s *Server) Shutdown() error {
	log.Println("サーバーをシャットダウンしています...")

	// 5秒のタイムアウトを設定
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("サーバーのシャットダウンに失敗: %w", err)
	}

	// Serve を経由していないソケットもここで閉じる
	if s.listener != nil {
		if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			return fmt.Errorf("ソケットのクローズに失敗: %w", err)
		}
	}

	log.Println("サーバーが正常にシャットダウンされました")
	return nil
}
