package server

import (
	"context"
	"iter"
	"log/slog"
	"net/http"

	"github.com/casualjim/cfagui/events"
	"github.com/casualjim/cfagui/pkg/slogx"
	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
)

func startStream(c *gin.Context) {
	c.Header("Content-Type", sse.ContentType)
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()
}

// writeEvent renders e as one SSE message and flushes it to the client.
func writeEvent(c *gin.Context, e events.Event) error {
	data, err := events.ToJSON(e)
	if err != nil {
		return err
	}
	c.Render(-1, sse.Event{
		Event: string(e.EventType()),
		Data:  string(data),
	})
	c.Writer.Flush()
	return nil
}

// stream writes every event of seq until it ends or the client goes away.
// Breaking out of seq stops the run.
func stream(c *gin.Context, seq iter.Seq[events.Event]) {
	ctx := c.Request.Context()
	log := slog.Default().With(slogx.LoggerName("server"))

	startStream(c)
	for e := range seq {
		if err := writeEvent(c, e); err != nil {
			log.ErrorContext(ctx, "failed to write event", slogx.Error(err), slog.String("type", string(e.EventType())))
			return
		}
		if ctx.Err() != nil {
			log.DebugContext(ctx, "client went away", slogx.Error(context.Cause(ctx)))
			return
		}
	}
}
