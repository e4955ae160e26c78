package app

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/phenrril/maison/internal/config"
)

// SetupLogger points the global zerolog logger at stdout, human readable
// outside production, and also at a rotating file when one is configured.
// The returned closer is nil without a file.
func SetupLogger(cfg config.LoggingConfig, production bool) (io.Closer, error) {
	level := zerolog.InfoLevel
	if s := strings.TrimSpace(cfg.Level); s != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(s))
		if err != nil {
			return nil, err
		}
		level = l
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = os.Stdout
	if !production {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	}

	var closer io.Closer
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
		}
		out = zerolog.MultiLevelWriter(out, lj)
		closer = lj
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return closer, nil
}
