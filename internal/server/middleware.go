package server

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader はリクエストごとに付与するIDのヘッダー名
const RequestIDHeader = "X-Request-Id"

// accessLog はリクエストIDを付与し、1リクエスト1行のアクセスログを出力する
func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := uuid.NewString()
		c.Header(RequestIDHeader, id)

		c.Next()

		req := c.Request
		log.Printf("%s [%s] \"%s %s %s\" %d %d %s",
			c.ClientIP(), id,
			req.Method, req.URL.RequestURI(), req.Proto,
			c.Writer.Status(), c.Writer.Size(),
			time.Since(start))
	}
}
