package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"cleaning-hub/pkg/utils"

	"go.uber.org/zap"
)

const (
	IdempotencyHeader = "Idempotency-Key"

	// idempotencyLockTTL bounds how long an in-flight key stays reserved if
	// the holder dies before releasing it.
	idempotencyLockTTL = 30 * time.Second
)

// IdempotencyStore keeps successful responses and in-flight reservations;
// *cache.Client satisfies it.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Idempotency replays the stored 2xx body for a repeated Idempotency-Key on
// POST requests. While one request holds a key, others with the same key get
// 409. Requests without the header pass through untouched.
func Idempotency(store IdempotencyStore, ttl time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if r.Method != http.MethodPost || key == "" {
				next.ServeHTTP(w, r)
				return
			}

			sum := sha256.Sum256([]byte(r.URL.Path + "\x00" + key))
			storeKey := "idempotency:" + hex.EncodeToString(sum[:])

			if replay(r.Context(), w, store, storeKey, logger) {
				return
			}

			lockKey := storeKey + ":lock"
			reserved, err := store.Reserve(r.Context(), lockKey, idempotencyLockTTL)
			if err != nil {
				logger.Warn("Idempotency reserve failed", zap.Error(err))
			}
			if err == nil && !reserved {
				utils.ResponseConflict(w, "A request with this Idempotency-Key is already in progress")
				return
			}
			if reserved {
				defer func() {
					if err := store.Release(context.WithoutCancel(r.Context()), lockKey); err != nil {
						logger.Warn("Idempotency release failed", zap.Error(err))
					}
				}()

				// The holder may have finished between the lookup and the reservation.
				if replay(r.Context(), w, store, storeKey, logger) {
					return
				}
			}

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK, captureBody: true}
			next.ServeHTTP(rw, r)

			if rw.statusCode >= 200 && rw.statusCode < 300 {
				if err := store.Set(r.Context(), storeKey, rw.body, ttl); err != nil {
					logger.Warn("Idempotency store failed", zap.Error(err))
				}
			}
		})
	}
}

func replay(ctx context.Context, w http.ResponseWriter, store IdempotencyStore, key string, logger *zap.Logger) bool {
	cached, ok, err := store.Get(ctx, key)
	if err != nil {
		logger.Warn("Idempotency lookup failed", zap.Error(err))
	}
	if !ok {
		return false
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Idempotent-Replay", "true")
	w.WriteHeader(http.StatusOK)
	w.Write(cached)
	return true
}
