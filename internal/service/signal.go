package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/itreb/portal"
)

const signalChannel = "portal:signals"

type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

func (s *SignalService) Publish(ctx context.Context, signal portal.Signal) error {

	jsonstr, err := json.Marshal(signal)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, signalChannel, jsonstr).Err()
	if err != nil {
		return err

	}

	return nil
}

// Realtime forwards published signals to output, filtered by the portfolio
// set most recently received on input. It returns when ctx is cancelled or
// input closes.
func (s *SignalService) Realtime(ctx context.Context, input <-chan []string, output chan<- portal.Signal) {
	pubsub := s.rdb.Subscribe(ctx, signalChannel)
	defer pubsub.Close()

	forwardSignals(ctx, pubsub.Channel(), input, output)
}

func forwardSignals(ctx context.Context, messages <-chan *redis.Message, input <-chan []string, output chan<- portal.Signal) {
	watched := map[string]bool{}

	for {
		select {
		case <-ctx.Done():
			return
		case portfolios, ok := <-input:
			if !ok {
				return
			}
			watched = map[string]bool{}
			for _, p := range portfolios {
				watched[p] = true
			}
		case msg, ok := <-messages:
			if !ok {
				return
			}

			var signal portal.Signal
			err := json.Unmarshal([]byte(msg.Payload), &signal)
			if err != nil {
				slog.ErrorContext(
					ctx, "Failed to decode signal",
					slog.String("error", err.Error()),
					slog.String("module", "signal"),
				)
				continue
			}

			if len(watched) > 0 && !watched[string(signal.Portfolio)] {
				continue
			}

			select {
			case output <- signal:
			case <-ctx.Done():
				return
			}
		}
	}
}
