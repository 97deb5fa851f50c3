package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"hrms_backend/internal/feature/attendance/adapters"
	"hrms_backend/internal/feature/attendance/usecase"
	"hrms_backend/internal/platform/cache"
)

// NewAttendanceRepository creates an AttendanceRepository implementation.
// If Redis is available, the GORM repository is wrapped in the read-through cache.
func NewAttendanceRepository(rdb *redis.Client, ttl time.Duration, db *gorm.DB) usecase.AttendanceRepository {
	repo := adapters.NewAttendanceRepository(db)
	if rdb == nil {
		return repo
	}
	return cache.NewCachingAttendanceRepository(rdb, ttl, repo, "attendance")
}
