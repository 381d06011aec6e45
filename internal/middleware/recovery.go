package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// panicResponseBody は統一エラーフォーマットに合わせた固定レスポンス。
// handlerパッケージはmiddlewareに依存するため、ここでは変換を通さず直接書き出す。
const panicResponseBody = `{"code":"INTERNAL_ERROR","message":"内部エラーが発生しました。","category":"system","action":"しばらく待ってから再度お試しください。"}`

// NewRecoveryMiddleware はハンドラー内のpanicを捕捉し、
// スタックトレースを記録したうえで500を返すミドルウェアを生成する。
// フィードやプロフィールの1リクエストの失敗でプロセス全体を落とさない。
func NewRecoveryMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("panic recovered",
						slog.Any("panic", rec),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.String("remote_addr", r.RemoteAddr),
						slog.String("stack", string(debug.Stack())),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte(panicResponseBody))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
