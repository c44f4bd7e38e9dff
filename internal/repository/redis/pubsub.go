package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/kirinyoku/cinebook/internal/domain"
)

// BookingsPubSub announces committed booking transitions on a Redis channel.
type BookingsPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewBookingsPubSub(rdb *redis.Client) *BookingsPubSub {
	return &BookingsPubSub{
		rdb:     rdb,
		channel: ChannelBookingsChanged(),
	}
}

func (p *BookingsPubSub) Notify(ctx context.Context, ev domain.BookingEvent) error {
	const op = "redis.BookingsPubSub.Notify"

	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	if err := p.rdb.Publish(ctx, p.channel, b).Err(); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

// Subscribe delivers events to handler until ctx is done. Payloads that do
// not decode into a booking event are skipped.
func (p *BookingsPubSub) Subscribe(
	ctx context.Context,
	handler func(ctx context.Context, ev domain.BookingEvent),
) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	// wait for the subscription to be confirmed so no event published
	// after Subscribe starts is missed
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev domain.BookingEvent
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil &&
				ev.BookingID != "" {
				handler(ctx, ev)
			}
		}
	}
}
