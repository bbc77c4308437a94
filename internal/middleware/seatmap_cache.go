package middleware

import (
	"bytes"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/nguyenquockhanh2301/AirlinesReservationSystemARS/internal/config"
)

// captureWriter captures the response body/status while forwarding to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) { cw.status = code; cw.ResponseWriter.WriteHeader(code) }
func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 || cw.size < cw.limit {
		remain := cw.limit - cw.size
		if cw.limit <= 0 {
			cw.buf.Write(b)
		} else if remain > 0 {
			if int64(len(b)) <= remain {
				cw.buf.Write(b)
			} else {
				cw.buf.Write(b[:remain])
			}
		}
		cw.size += int64(len(b))
	}
	return cw.ResponseWriter.Write(b)
}

// seatMapKey builds the cache key for one schedule's seat map. Claims and
// releases invalidate exactly this key, so the strategy is deliberately a
// plain schedule ID rather than a hashed route+query.
func seatMapKey(prefix string, scheduleID uint64) string {
	return prefix + ":" + strconv.FormatUint(scheduleID, 10)
}

// NewSeatMapCache caches the JSON seat map of a schedule in Redis under
// seatmap:<schedule_id>. Only successful GET responses are stored; a
// response larger than MaxBodyBytes is served but not cached. A nil
// Redis client or a disabled config yields a pass-through middleware.
//
// The cache is best-effort: a stale map only costs the client one
// conflict round-trip, because the claim itself is decided by the
// database, never by this cache.
func NewSeatMapCache(cfg config.SeatMapCacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return func(c echo.Context) error { return next(c) } }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	maxBody := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			scheduleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
			if err != nil {
				return next(c)
			}

			ctx := c.Request().Context()
			key := seatMapKey(cfg.Prefix, scheduleID)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil && len(bs) > 0 {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.JSONBlob(http.StatusOK, bs)
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if cw.status == http.StatusOK && (maxBody <= 0 || cw.size <= maxBody) {
				_ = rdb.SetEx(context.Background(), key, cw.buf.Bytes(), ttl).Err()
			}
			return nil
		}
	}
}

// InvalidateSeatMap drops the cached seat map of a schedule. Handlers
// call it after any claim or release commits; failures are ignored
// because the entry expires on its own TTL anyway.
func InvalidateSeatMap(ctx context.Context, rdb *redis.Client, cfg config.SeatMapCacheConfig, scheduleID uint64) {
	if rdb == nil || !cfg.Enabled {
		return
	}
	_ = rdb.Del(ctx, seatMapKey(cfg.Prefix, scheduleID)).Err()
}
