package broadcast

import (
	"context"
	"time"

	"applybot/core/logger"
	"log/slog"
)

// DefaultPause is the gap between consecutive deliveries.
const DefaultPause = 100 * time.Millisecond

// Result summarises a finished relay run.
type Result struct {
	Delivered int
	Failed    int
}

// Relay delivers the payload to each recipient through send, one at a time.
// A failed recipient is counted and logged but never stops the rest. There
// is no retry; a run is fire-and-forget.
func Relay(ctx context.Context, ids []int64, pause time.Duration, send func(id int64) error) Result {
	if pause <= 0 {
		pause = DefaultPause
	}

	start := time.Now()
	var res Result
	for i, id := range ids {
		if err := send(id); err != nil {
			res.Failed++
			logger.Warn(ctx, "broadcast", "relay.send_fail",
				slog.Int64("user_id", id),
				slog.String("err", err.Error()),
			)
		} else {
			res.Delivered++
		}
		if i+1 < len(ids) {
			time.Sleep(pause)
		}
	}

	logger.Info(ctx, "broadcast", "relay.done",
		slog.Int("recipients", len(ids)),
		slog.Int("delivered", res.Delivered),
		slog.Int("failed", res.Failed),
		slog.Duration("duration", logger.Took(start)),
	)
	return res
}
