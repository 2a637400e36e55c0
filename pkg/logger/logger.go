package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New construye el logger del servicio: consola legible en development, JSON en
// cualquier otro entorno. El nivel viene de configuración (LOG_LEVEL); un nivel
// irreconocible cae a info. También reapunta el logger global de zerolog, que es
// el que usan los handlers HTTP.
func New(env, level string) zerolog.Logger {
	var w io.Writer = os.Stdout
	if env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	zl := zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "ordio-api").Logger()
	log.Logger = zl
	return zl
}
