package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
)

// LevelAudit sits between info and warn and is rendered as "audit".
const LevelAudit = slog.Level(2)

var logger atomic.Pointer[slog.Logger]

func init() { SetOutput(os.Stdout) }

// SetOutput sends all entries to w as one JSON object per line.
func SetOutput(w io.Writer) {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       slog.LevelDebug,
		ReplaceAttr: replaceAttr,
	})
	logger.Store(slog.New(h))
}

func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}
	switch a.Key {
	case slog.TimeKey:
		a.Key = "ts"
		a.Value = slog.StringValue(a.Value.Time().UTC().Format("2006-01-02T15:04:05Z07:00"))
	case slog.MessageKey:
		a.Key = "action"
	case slog.LevelKey:
		switch lvl := a.Value.Any().(slog.Level); {
		case lvl == LevelAudit:
			a.Value = slog.StringValue("audit")
		case lvl >= slog.LevelError:
			a.Value = slog.StringValue("error")
		case lvl >= slog.LevelWarn:
			a.Value = slog.StringValue("warn")
		default:
			a.Value = slog.StringValue("info")
		}
	}
	return a
}

func write(level slog.Level, c *fiber.Ctx, action string, err error, fields map[string]any) {
	attrs := make([]slog.Attr, 0, 9)
	ctx := context.Background()
	if c != nil {
		ctx = c.UserContext()
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			attrs = append(attrs, slog.String("req_id", rid))
		}
		attrs = append(attrs,
			slog.String("ip", c.IP()),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
		)
		if st := c.Response().StatusCode(); st != 0 {
			attrs = append(attrs, slog.Int("status", st))
		}
		if uid, ok := c.Locals(UserIDKey).(string); ok && uid != "" {
			attrs = append(attrs, slog.String("user_id", uid))
		}
	}
	if err != nil {
		attrs = append(attrs, slog.String("err", err.Error()))
	}
	if len(fields) > 0 {
		attrs = append(attrs, slog.Any("fields", fields))
	}
	logger.Load().LogAttrs(ctx, level, action, attrs...)
}

// UserIDKey is the fiber Locals key holding the authenticated user id.
const UserIDKey = "user_id"

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	write(slog.LevelInfo, c, action, nil, fields)
}

func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write(LevelAudit, c, action, nil, fields)
}

func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(slog.LevelWarn, c, action, nil, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(slog.LevelError, c, action, err, fields)
}
