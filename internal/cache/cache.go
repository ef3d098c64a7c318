package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/gretellmoreno/bellagenda-api/internal/config"
)

// Cache embrulha o Redis com (de)serialização JSON.
// Erros de cache nunca sobem para o caller: cache indisponível
// degrada para o banco, não derruba a API.
type Cache struct {
	rdb *redis.Client
}

func New(cfg *config.Config) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Printf("redis unavailable (%v), falling back to DB only", err)
	}

	return &Cache{rdb: rdb}
}

func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	raw, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), dest) == nil
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Println("cache set error:", err)
	}
}

// SetNX grava a chave só se ela ainda não existir. Serve de lock
// curto entre requisições concorrentes; o TTL evita lock órfão.
func (c *Cache) SetNX(ctx context.Context, key string, value any, ttl time.Duration) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		return false
	}
	ok, err := c.rdb.SetNX(ctx, key, raw, ttl).Result()
	if err != nil {
		return false
	}
	return ok
}

func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Println("cache delete error:", err)
	}
}

// Keys pattern scan usado pela limpeza de rascunhos expirados.
func (c *Cache) Keys(ctx context.Context, pattern string) []string {
	keys, err := c.rdb.Keys(ctx, pattern).Result()
	if err != nil {
		return nil
	}
	return keys
}
