package logger

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ogurasousui/hr-employee-service/internal/platform/config"
	"github.com/rs/zerolog"
)

// New は設定に従って zerolog.Logger を構築します。
// file_path が指定されている場合は標準出力とファイルの両方へ書き込みます。
// 戻り値の close 関数でファイルを閉じてください。
func New(cfg config.LogConfig) (zerolog.Logger, func() error, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), noopClose, err
	}

	writers := []io.Writer{os.Stdout}
	closeFn := noopClose

	if cfg.FilePath != "" {
		file, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o664)
		if err != nil {
			return zerolog.Nop(), noopClose, fmt.Errorf("logger: open %s: %w", cfg.FilePath, err)
		}
		writers = append(writers, file)
		closeFn = file.Close
	}

	return NewWithWriter(zerolog.MultiLevelWriter(writers...), level), closeFn, nil
}

// NewWithWriter は任意の出力先に書き込むロガーを返します。
func NewWithWriter(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Str("service", "hr-employee-service").Logger()
}

// WithContext はロガーを追加フィールド付きでコンテキストに格納します。
func WithContext(ctx context.Context, l zerolog.Logger, fields map[string]any) context.Context {
	if len(fields) > 0 {
		l = l.With().Fields(fields).Logger()
	}
	return l.WithContext(ctx)
}

func parseLevel(raw string) (zerolog.Level, error) {
	if raw == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(raw)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("logger: %w", err)
	}
	return level, nil
}

func noopClose() error { return nil }
