package dashboard

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/hsinyuc/go-night-market/internal/kafka"
	"github.com/hsinyuc/go-night-market/internal/market"
	"github.com/hsinyuc/go-night-market/internal/redisx"
)

// Service keeps vendor dashboards honest: whenever an order is paid, the cached
// stats of every stall in that order are dropped so the next read recomputes.
type Service struct {
	Redis       *redis.Client
	ServiceName string
	Log         *zap.Logger
}

// HandleOrderPaid is wired as the consumer handler for market.order.paid.
func (s *Service) HandleOrderPaid(ctx context.Context, m kafkago.Message) error {
	var env market.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != market.EventOrderPaid {
		return nil
	}

	// dedup by event_id so a redelivered message is a no-op
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[market.OrderPaidPayload](env.Payload)
	if err != nil {
		return err
	}

	for _, stallID := range p.StallIDs {
		key := fmt.Sprintf(redisx.KeyStallStats, stallID)
		if err := s.Redis.Del(ctx, key).Err(); err != nil {
			s.Log.Warn("drop stall stats cache", zap.String("stall_id", stallID), zap.Error(err))
		}
	}

	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, p.OrderID)
	_ = s.Redis.Set(ctx, statusKey, `{"status":"paid"}`, redisx.TTLStatusCache).Err()

	s.Log.Info("order paid",
		zap.String("order_id", p.OrderID),
		zap.Int("points_earned", p.PointsEarned),
		zap.Int("stalls", len(p.StallIDs)))
	return nil
}
