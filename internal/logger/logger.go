// Package logger はminifeed全プロセス共通のJSON構造化ログを設定する。
package logger

import (
	"io"
	"log/slog"
	"os"
)

// serviceName は全ログ行に付与されるサービス識別子。
// webとworkerが同じログ基盤に出力するため、行単位でサービスを特定できるようにする。
const serviceName = "minifeed"

// Setup はJSON構造化ログ出力のslog.Loggerを生成して返す。
// すべてのログ行にservice属性が付与される。
func Setup(w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(handler).With(slog.String("service", serviceName))
}

// SetupDefault はJSON構造化ログ出力をグローバルロガーとして設定する。
// writerがnilの場合はos.Stdoutに出力する。
func SetupDefault(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	slog.SetDefault(Setup(w))
}
