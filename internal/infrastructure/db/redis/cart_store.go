package redis

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/tradeyard/marketplace-api/internal/core/ports"
)

// CartStore reads buyer carts from Redis hashes.
// Key format: cart:<buyer_id>, fields are product IDs, values are quantities.
// Cart writes happen outside this service; placement only snapshots and clears.
type CartStore struct {
	client *redis.Client
}

// NewCartStore creates a CartStore wrapping the given Redis client.
func NewCartStore(client *redis.Client) *CartStore {
	return &CartStore{client: client}
}

// GetSnapshot returns the buyer's cart lines sorted by product ID so the
// placement sequence is deterministic.
func (s *CartStore) GetSnapshot(ctx context.Context, buyerID string) ([]ports.CartLine, error) {
	fields, err := s.client.HGetAll(ctx, s.key(buyerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("cart snapshot: %w", err)
	}

	lines := make([]ports.CartLine, 0, len(fields))
	for productID, raw := range fields {
		qty, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("cart snapshot: quantity for %s: %w", productID, err)
		}
		lines = append(lines, ports.CartLine{ProductID: productID, Quantity: qty})
	}

	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines, nil
}

// Clear removes the buyer's cart.
func (s *CartStore) Clear(ctx context.Context, buyerID string) error {
	return s.client.Del(ctx, s.key(buyerID)).Err()
}

func (s *CartStore) key(buyerID string) string {
	return fmt.Sprintf("cart:%s", buyerID)
}
