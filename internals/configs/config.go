package configs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	JWTSecret        string
	JWTRefreshSecret string
	RedisAddr        string
	RedisPassword    string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	JWTRefreshSecret = GetEnv("JWT_REFRESH_SECRET")
	RedisAddr = GetEnvOr("REDIS_ADDR", "localhost:6379")
	RedisPassword = os.Getenv("REDIS_PASSWORD")

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET belum diset!")
	} else {
		log.Println("✅ JWT_SECRET berhasil dimuat.")
	}
}

func GetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Printf("⚠️ ENV %s kosong", key)
	}
	return val
}

func GetEnvOr(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}
