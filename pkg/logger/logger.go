package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones del logger.
type Config struct {
	App   string    // se agrega como campo "app" si no está vacío
	Env   string    // development: consola legible; cualquier otro valor: JSON
	Level string    // nivel zerolog; vacío o desconocido usa info
	Out   io.Writer // destino; nil usa stdout
}

// Logger envuelve zerolog. Los casos de uso reciben un *Logger y crean el suyo con Named.
type Logger struct {
	zl zerolog.Logger
}

// New crea el logger de la aplicación y lo deja también como logger global de zerolog.
func New(cfg Config) *Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	if cfg.Env == "development" {
		out = zerolog.ConsoleWriter{Out: out}
	}

	zctx := zerolog.New(out).Level(levelOf(cfg.Level)).With().Timestamp()
	if cfg.App != "" {
		zctx = zctx.Str("app", cfg.App)
	}
	zl := zctx.Logger()
	log.Logger = zl

	return &Logger{zl: zl}
}

func levelOf(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// Named sublogger con el campo "component".
func (l *Logger) Named(component string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", component).Logger()}
}

// Nop descarta todo.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}
