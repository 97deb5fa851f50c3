// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"hrms_backend/internal/feature/attendance/domain/entity"
	"hrms_backend/internal/feature/attendance/usecase"
)

// DefaultTTL is used when NewCachingAttendanceRepository receives a non-positive ttl.
const DefaultTTL = 5 * time.Minute

// generationTTL bounds how long a write is remembered; it must outlive any in-flight read.
const generationTTL = 24 * time.Hour

// setIfGeneration stores ARGV[2] under KEYS[2] for ARGV[3] ms only while KEYS[1] still
// holds the generation the reader saw (ARGV[1], "" when absent).
var setIfGeneration = redis.NewScript(`
if (redis.call('GET', KEYS[1]) or '') == ARGV[1] then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
	return 1
end
return 0
`)

// CachingAttendanceRepository decorates an AttendanceRepository with a Redis read-through cache.
// Lookups by id and by employee are cached; every write invalidates the keys it affects.
// Each key has a generation counter bumped on invalidation, and a miss only fills the cache
// if the generation is unchanged, so a read racing a write never caches the old row.
// A nil Redis client turns the decorator into a pass-through.
type CachingAttendanceRepository struct {
	inner     usecase.AttendanceRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.AttendanceRepository = (*CachingAttendanceRepository)(nil)

// NewCachingAttendanceRepository wraps inner. An empty namespace defaults to "attendance".
func NewCachingAttendanceRepository(rdb *redis.Client, ttl time.Duration, inner usecase.AttendanceRepository, namespace string) *CachingAttendanceRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if namespace == "" {
		namespace = "attendance"
	}
	return &CachingAttendanceRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create inserts through inner and drops the employee's cached list.
func (c *CachingAttendanceRepository) Create(ctx context.Context, a *entity.Attendance) error {
	if err := c.inner.Create(ctx, a); err != nil {
		return err
	}
	c.invalidate(ctx, c.employeeKey(a.EmployeeID))
	return nil
}

// FindByID checks the cache first and falls back to inner.
// Not-found results are never cached.
func (c *CachingAttendanceRepository) FindByID(ctx context.Context, id uint) (*entity.Attendance, error) {
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := c.idKey(id)
	var cached entity.Attendance
	hit, gen, cacheable := c.get(ctx, key, &cached)
	if hit {
		return &cached, nil
	}

	a, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cacheable {
		c.set(ctx, key, gen, a)
	}
	return a, nil
}

// FindByEmployeeID checks the cache first and falls back to inner.
func (c *CachingAttendanceRepository) FindByEmployeeID(ctx context.Context, employeeID uint) ([]entity.Attendance, error) {
	if c.rdb == nil {
		return c.inner.FindByEmployeeID(ctx, employeeID)
	}

	key := c.employeeKey(employeeID)
	var cached []entity.Attendance
	hit, gen, cacheable := c.get(ctx, key, &cached)
	if hit {
		return cached, nil
	}

	records, err := c.inner.FindByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if cacheable {
		c.set(ctx, key, gen, records)
	}
	return records, nil
}

// Update writes through inner and drops the record and its employee's list.
func (c *CachingAttendanceRepository) Update(ctx context.Context, a *entity.Attendance) error {
	if err := c.inner.Update(ctx, a); err != nil {
		return err
	}
	c.invalidate(ctx, c.idKey(a.ID), c.employeeKey(a.EmployeeID))
	return nil
}

// SoftDelete deletes through inner and drops the record and its employee's list.
func (c *CachingAttendanceRepository) SoftDelete(ctx context.Context, id uint) error {
	if c.rdb == nil {
		return c.inner.SoftDelete(ctx, id)
	}

	// The employee id is needed to find the list key; look it up before the row disappears.
	existing, findErr := c.inner.FindByID(ctx, id)
	if err := c.inner.SoftDelete(ctx, id); err != nil {
		return err
	}

	keys := []string{c.idKey(id)}
	if findErr == nil {
		keys = append(keys, c.employeeKey(existing.EmployeeID))
	}
	c.invalidate(ctx, keys...)
	return nil
}

// get decodes key into dst and returns the key's current generation.
// cacheable is false when Redis failed, since the generation is then unknown.
// Corrupted entries are deleted and reported as a miss.
func (c *CachingAttendanceRepository) get(ctx context.Context, key string, dst any) (hit bool, gen string, cacheable bool) {
	vals, err := c.rdb.MGet(ctx, key, generationKey(key)).Result()
	if err != nil || len(vals) != 2 {
		return false, "", false
	}
	gen, _ = vals[1].(string)

	raw, _ := vals[0].(string)
	if raw == "" {
		return false, gen, true
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return false, gen, true
	}
	return true, gen, true
}

// set stores v under key if key's generation is still gen, best effort.
func (c *CachingAttendanceRepository) set(ctx context.Context, key, gen string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = setIfGeneration.Run(ctx, c.rdb, []string{generationKey(key), key}, gen, b, c.ttl.Milliseconds()).Err()
}

// invalidate bumps the generation of keys and deletes them, best effort.
// Callers invoke it after the write reached the inner repository.
func (c *CachingAttendanceRepository) invalidate(ctx context.Context, keys ...string) {
	if c.rdb == nil || len(keys) == 0 {
		return
	}
	_, _ = c.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		for _, k := range keys {
			p.Incr(ctx, generationKey(k))
			p.Expire(ctx, generationKey(k), generationTTL)
		}
		p.Del(ctx, keys...)
		return nil
	})
}

func generationKey(key string) string {
	return key + ":gen"
}

func (c *CachingAttendanceRepository) idKey(id uint) string {
	return fmt.Sprintf("%s:id:%d", c.namespace, id)
}

func (c *CachingAttendanceRepository) employeeKey(employeeID uint) string {
	return fmt.Sprintf("%s:employee:%d", c.namespace, employeeID)
}
