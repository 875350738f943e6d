// services/user_lock.go
package services

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// releaseScript deletes the lock key only if it still holds our token, so
// an operation that overran the lease cannot release a lock someone else
// has since acquired.
const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`

// UserLock serializes balance-mutating operations per user. Two
// near-simultaneous requests for the same user (double-click, second
// browser tab) queue behind the same Redis lease instead of racing the
// read-then-write windows in the investment and wallet flows.
type UserLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewUserLock(client *redis.Client) *UserLock {
	return &UserLock{
		client: client,
		ttl:    15 * time.Second,
	}
}

// Acquire takes the ledger lock for a user and returns the release
// function. It retries briefly before giving up with ErrConflict. When
// Redis is unavailable the lock degrades to a no-op and the store-level
// guard filters remain the only protection.
func (l *UserLock) Acquire(ctx context.Context, userID primitive.ObjectID) (func(), error) {
	if l == nil || l.client == nil {
		return func() {}, nil
	}

	key := "ledgerlock:" + userID.Hex()
	token := uuid.NewString()

	deadline := time.Now().Add(3 * time.Second)
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			log.Printf("Warning: ledger lock unavailable for %s: %v", userID.Hex(), err)
			return func() {}, nil
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrConflict
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}

	release := func() {
		if err := l.client.Eval(context.Background(), releaseScript, []string{key}, token).Err(); err != nil && err != redis.Nil {
			log.Printf("Warning: failed to release ledger lock for %s: %v", userID.Hex(), err)
		}
	}
	return release, nil
}
