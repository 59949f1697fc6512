package database

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"sekolahku_backend/internals/configs"
)

var Redis *redis.Client

// ConnectRedis menyiapkan client Redis untuk cache read-side (statistik kelas).
// Gagal ping tidak fatal: cache dianggap kosong, query jatuh ke DB.
func ConnectRedis() {
	Redis = redis.NewClient(&redis.Options{
		Addr:     configs.RedisAddr,
		Password: configs.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := Redis.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Redis tidak tersedia (%v), cache statistik dinonaktifkan", err)
		return
	}
	log.Println("✅ Redis connected.")
}
