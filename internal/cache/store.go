package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/mmynk/warikan/internal/models"
	"github.com/mmynk/warikan/internal/storage"
)

// Store wraps a storage.Store and serves ListPurchases from a Cache.
// Views are cached under a generation number that every purchase mutation
// bumps, whether or not the write succeeded. A list read that overlaps a
// write can therefore only land under a retired generation. Cache failures
// are logged and fall back to the store.
type Store struct {
	storage.Store
	cache Cache
	ttl   time.Duration
}

// NewStore wraps store with a read-through purchase view cache.
func NewStore(store storage.Store, cache Cache, ttl time.Duration) *Store {
	return &Store{Store: store, cache: cache, ttl: ttl}
}

const generationKey = "warikan:purchases:generation"

func viewKey(gen int64, filter models.SettledFilter) string {
	return fmt.Sprintf("warikan:purchases:%d:%s", gen, filter)
}

func (s *Store) generation(ctx context.Context) (int64, error) {
	data, ok, err := s.cache.Get(ctx, generationKey)
	if err != nil || !ok {
		return 0, err
	}
	return strconv.ParseInt(string(data), 10, 64)
}

func (s *Store) ListPurchases(ctx context.Context, filter models.SettledFilter) ([]models.Purchase, error) {
	// The generation must be read before the store.
	gen, err := s.generation(ctx)
	if err != nil {
		slog.Warn("Purchase cache read failed", "key", generationKey, "error", err)
		return s.Store.ListPurchases(ctx, filter)
	}
	key := viewKey(gen, filter)

	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("Purchase cache read failed", "key", key, "error", err)
	}
	if ok {
		var purchases []models.Purchase
		if err := json.Unmarshal(data, &purchases); err == nil {
			return purchases, nil
		}
		slog.Warn("Dropping undecodable cache entry", "key", key, "error", err)
	}

	purchases, err := s.Store.ListPurchases(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.fill(ctx, gen, key, purchases)
	return purchases, nil
}

// fill caches purchases under key. If the generation moved on while the
// view was being read, the entry is removed again so it does not linger
// when there is no TTL.
func (s *Store) fill(ctx context.Context, gen int64, key string, purchases []models.Purchase) {
	data, err := json.Marshal(purchases)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		slog.Warn("Purchase cache write failed", "key", key, "error", err)
		return
	}
	if current, err := s.generation(ctx); err == nil && current == gen {
		return
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		slog.Warn("Purchase cache cleanup failed", "key", key, "error", err)
	}
}

func (s *Store) CreatePurchase(ctx context.Context, draft *models.PurchaseDraft) (*models.Purchase, error) {
	defer s.invalidate(ctx)
	return s.Store.CreatePurchase(ctx, draft)
}

func (s *Store) UpdatePurchase(ctx context.Context, purchaseID int64, draft *models.PurchaseDraft) error {
	defer s.invalidate(ctx)
	return s.Store.UpdatePurchase(ctx, purchaseID, draft)
}

func (s *Store) UpsertAllocations(ctx context.Context, purchaseID int64, allocations []models.Allocation) error {
	defer s.invalidate(ctx)
	return s.Store.UpsertAllocations(ctx, purchaseID, allocations)
}

func (s *Store) SetSettled(ctx context.Context, purchaseID int64, settled bool) error {
	defer s.invalidate(ctx)
	return s.Store.SetSettled(ctx, purchaseID, settled)
}

func (s *Store) DeletePurchase(ctx context.Context, purchaseID int64) error {
	defer s.invalidate(ctx)
	return s.Store.DeletePurchase(ctx, purchaseID)
}

func (s *Store) invalidate(ctx context.Context) {
	gen, err := s.cache.Incr(ctx, generationKey)
	if err != nil {
		slog.Warn("Purchase cache invalidation failed", "error", err)
		return
	}
	retired := []string{viewKey(gen-1, models.Unsettled), viewKey(gen-1, models.Settled)}
	if err := s.cache.Delete(ctx, retired...); err != nil {
		slog.Warn("Purchase cache cleanup failed", "error", err)
	}
}
