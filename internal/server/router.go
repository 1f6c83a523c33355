package server

import (
	"fmt"

	"mapview/internal/config"
	"mapview/internal/static"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// newRouter はマップ配信用のginエンジンを作成する
func newRouter(cfg *config.Config) *gin.Engine {
	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	if err := engine.SetTrustedProxies(nil); err != nil {
		panic(fmt.Sprintf("信頼するプロキシの設定に失敗: %v", err))
	}

	engine.Use(accessLog(), gin.Recovery())

	files := gin.WrapH(static.NewHandler(cfg.Map.Root, cfg.Map.TargetFile))

	// "/" の書き換えを含め、全パスを静的ファイルハンドラに渡す
	engine.GET("/*filepath", files)
	engine.HEAD("/*filepath", files)

	// その他のメソッドも静的ファイルハンドラが 501 を返す
	// 全パスがGETのルートに一致するため NoRoute は不要
	engine.NoMethod(files)

	return engine
}
