package probes

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bartekus/featureprobe/internal/runner"
)

// DefaultAsyncDelay is how long FetchData takes unless configured otherwise.
const DefaultAsyncDelay = 500 * time.Millisecond

// FetchData resolves to "done" after delay. The caller blocks until it does,
// or until ctx is done.
func FetchData(ctx context.Context, delay time.Duration) (string, error) {
	g, gctx := errgroup.WithContext(ctx)

	var data string
	g.Go(func() error {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-t.C:
			data = "done"
			return nil
		case <-gctx.Done():
			return gctx.Err()
		}
	})

	if err := g.Wait(); err != nil {
		return "", err
	}
	return data, nil
}

func asyncProbe(log *zap.Logger, delay time.Duration) runner.Probe {
	return runner.Probe{
		Name: "async:fetch",
		Doc:  "one awaited round trip with try / catch / finally",
		Action: func(ctx context.Context) (any, error) {
			defer log.Debug("cleanup")

			data, err := FetchData(ctx, delay)
			if err != nil {
				log.Error("fetch failed", zap.Error(err))
				return nil, err
			}
			log.Info("fetched", zap.String("data", data))
			return data, nil
		},
		Expect: "done",
	}
}
