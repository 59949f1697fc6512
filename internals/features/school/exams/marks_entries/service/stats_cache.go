package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const statsCacheTTL = 5 * time.Minute

// StatsCache membungkus Redis untuk cache statistik kelas per exam.
// Semua kegagalan Redis diperlakukan sebagai cache miss — DB tetap
// sumber kebenaran.
type StatsCache struct {
	rdb *redis.Client
}

func NewStatsCache(rdb *redis.Client) *StatsCache {
	if rdb == nil {
		return nil
	}
	return &StatsCache{rdb: rdb}
}

func statsKey(examID uuid.UUID) string {
	return fmt.Sprintf("stats:exam:%s", examID)
}

func (c *StatsCache) Get(ctx context.Context, examID uuid.UUID) (*ClassStatistics, bool) {
	raw, err := c.rdb.Get(ctx, statsKey(examID)).Bytes()
	if err != nil {
		return nil, false
	}
	var stats ClassStatistics
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, false
	}
	return &stats, true
}

func (c *StatsCache) Set(ctx context.Context, examID uuid.UUID, stats *ClassStatistics) {
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, statsKey(examID), raw, statsCacheTTL).Err(); err != nil {
		log.Printf("⚠️ gagal set cache statistik exam %s: %v", examID, err)
	}
}

func (c *StatsCache) Invalidate(ctx context.Context, examID uuid.UUID) {
	if err := c.rdb.Del(ctx, statsKey(examID)).Err(); err != nil {
		log.Printf("⚠️ gagal invalidasi cache statistik exam %s: %v", examID, err)
	}
}
