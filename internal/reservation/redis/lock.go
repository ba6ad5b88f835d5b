package redis

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// Lock serializes hashkey sequence allocation per (event, phone) pair
// across processes. The database transaction already protects a single
// process; this keeps two service instances from interleaving approvals
// for the same phone.
type Lock struct {
	Client *redis.Client
	Logger *log.Logger
}

func NewLock(client *redis.Client) *Lock {
	return &Lock{
		Client: client,
		Logger: log.Default(),
	}
}

func lockKey(eventID int64, phone string) string {
	return fmt.Sprintf("seq_lock:%d:%s", eventID, phone)
}

// getLockDuration returns the sequence lock TTL from environment
// variables or the default value
func (l *Lock) getLockDuration() time.Duration {
	defaultDuration := 30 * time.Second

	ttlStr := os.Getenv("SEQ_LOCK_TTL_SECONDS")
	if ttlStr == "" {
		return defaultDuration
	}

	ttlSec, err := strconv.Atoi(ttlStr)
	if err != nil {
		l.Logger.Println("REDIS: Invalid SEQ_LOCK_TTL_SECONDS value '" + ttlStr + "', using default 30 seconds")
		return defaultDuration
	}
	return time.Duration(ttlSec) * time.Second
}

// Acquire takes the sequence lock for (eventID, phone). The owner token
// ties the lock to one approval so an expired lock cannot be released by
// a later holder.
func (l *Lock) Acquire(ctx context.Context, eventID int64, phone, owner string) (bool, error) {
	ok, err := l.Client.SetNX(ctx, lockKey(eventID, phone), owner, l.getLockDuration()).Result()
	return ok, err
}

// Release frees the lock if this owner still holds it.
func (l *Lock) Release(ctx context.Context, eventID int64, phone, owner string) error {
	key := lockKey(eventID, phone)
	val, err := l.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil // already released or expired
	}
	if err != nil {
		return err
	}
	if val == owner {
		_, err := l.Client.Del(ctx, key).Result()
		return err
	}
	return nil
}
