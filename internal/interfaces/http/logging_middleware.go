package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

const localLogger = "logger"

// RequestLogger registra método, ruta, estado, latencia y usuario de cada
// petición. Deja en Locals un sublogger con el request id para los handlers.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID, _ := c.Locals("requestid").(string)
		reqLog := log.With().Str("request_id", reqID).Logger()
		c.Locals(localLogger, &reqLog)

		err := c.Next()
		if err != nil {
			// deja que el ErrorHandler de fiber fije el status antes de registrar
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		var ev *zerolog.Event
		switch {
		case status >= 500:
			ev = reqLog.Error()
		case status >= 400:
			ev = reqLog.Warn()
		default:
			ev = reqLog.Info()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Msg("http")
		return nil
	}
}

// logFromCtx sublogger de la petición; Nop si no pasó por RequestLogger.
func logFromCtx(c *fiber.Ctx) *zerolog.Logger {
	if l, ok := c.Locals(localLogger).(*zerolog.Logger); ok {
		return l
	}
	nop := zerolog.Nop()
	return &nop
}
