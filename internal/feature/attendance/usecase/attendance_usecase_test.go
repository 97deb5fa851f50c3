package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrms_backend/internal/feature/attendance/domain/entity"
)

// memoryRepo is an in-memory AttendanceRepository that honours soft deletes.
type memoryRepo struct {
	nextID  uint
	records map[uint]entity.Attendance
	deleted map[uint]bool
	writes  int

	// failWith, when set, is returned by every call.
	failWith error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{records: map[uint]entity.Attendance{}, deleted: map[uint]bool{}}
}

func (m *memoryRepo) Create(ctx context.Context, a *entity.Attendance) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.nextID++
	a.ID = m.nextID
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	m.records[a.ID] = *a
	m.writes++
	return nil
}

func (m *memoryRepo) FindByID(ctx context.Context, id uint) (*entity.Attendance, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	a, ok := m.records[id]
	if !ok || m.deleted[id] {
		return nil, ErrAttendanceNotFound
	}
	return &a, nil
}

func (m *memoryRepo) FindByEmployeeID(ctx context.Context, employeeID uint) ([]entity.Attendance, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []entity.Attendance
	for id, a := range m.records {
		if a.EmployeeID == employeeID && !m.deleted[id] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryRepo) Update(ctx context.Context, a *entity.Attendance) error {
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.records[a.ID]; !ok || m.deleted[a.ID] {
		return ErrAttendanceNotFound
	}
	m.records[a.ID] = *a
	m.writes++
	return nil
}

func (m *memoryRepo) SoftDelete(ctx context.Context, id uint) error {
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.records[id]; !ok || m.deleted[id] {
		return ErrAttendanceNotFound
	}
	m.deleted[id] = true
	m.writes++
	return nil
}

// mockDirectory is a func-field EmployeeDirectory.
type mockDirectory struct {
	ExistsFunc func(ctx context.Context, employeeID uint) (bool, error)
}

func (m *mockDirectory) Exists(ctx context.Context, employeeID uint) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, employeeID)
	}
	return true, nil
}

var nineAM = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func TestAttendanceUsecase_CreateAttendance(t *testing.T) {
	ctx := context.Background()

	t.Run("new record starts Present without check-out", func(t *testing.T) {
		repo := newMemoryRepo()
		uc := NewAttendanceUsecase(repo, &mockDirectory{})

		a, err := uc.CreateAttendance(ctx, CreateInput{EmployeeID: 7, CheckInTime: nineAM, Notes: ptr("on site")})

		require.NoError(t, err)
		assert.NotZero(t, a.ID)
		assert.Equal(t, entity.StatusPresent, a.Status)
		assert.Nil(t, a.CheckOutTime)
		assert.Nil(t, a.WorkingHours)
		assert.Equal(t, "on site", *a.Notes)

		got, err := uc.GetAttendanceByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, uint(7), got.EmployeeID)
		assert.True(t, got.CheckInTime.Equal(nineAM))
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("invalid input", func(t *testing.T) {
		tests := []struct {
			name string
			in   CreateInput
		}{
			{"missing employee", CreateInput{CheckInTime: nineAM}},
			{"missing check-in", CreateInput{EmployeeID: 7}},
			{"notes too long", CreateInput{EmployeeID: 7, CheckInTime: nineAM, Notes: ptr(strings.Repeat("n", 501))}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				repo := newMemoryRepo()
				uc := NewAttendanceUsecase(repo, &mockDirectory{})

				_, err := uc.CreateAttendance(ctx, tt.in)

				assert.ErrorIs(t, err, ErrInvalidInput)
				assert.Zero(t, repo.writes)
			})
		}
	})

	t.Run("notes of exactly 500 characters are accepted", func(t *testing.T) {
		uc := NewAttendanceUsecase(newMemoryRepo(), &mockDirectory{})

		_, err := uc.CreateAttendance(ctx, CreateInput{EmployeeID: 7, CheckInTime: nineAM, Notes: ptr(strings.Repeat("é", 500))})

		assert.NoError(t, err)
	})

	t.Run("unknown employee", func(t *testing.T) {
		repo := newMemoryRepo()
		dir := &mockDirectory{ExistsFunc: func(ctx context.Context, id uint) (bool, error) { return false, nil }}
		uc := NewAttendanceUsecase(repo, dir)

		_, err := uc.CreateAttendance(ctx, CreateInput{EmployeeID: 99, CheckInTime: nineAM})

		assert.ErrorIs(t, err, ErrEmployeeNotFound)
		assert.Zero(t, repo.writes)
	})

	t.Run("directory failure is wrapped", func(t *testing.T) {
		dirErr := errors.New("employee service unavailable")
		dir := &mockDirectory{ExistsFunc: func(ctx context.Context, id uint) (bool, error) { return false, dirErr }}
		uc := NewAttendanceUsecase(newMemoryRepo(), dir)

		_, err := uc.CreateAttendance(ctx, CreateInput{EmployeeID: 7, CheckInTime: nineAM})

		assert.ErrorIs(t, err, dirErr)
		assert.NotErrorIs(t, err, ErrEmployeeNotFound)
	})
}

func TestAttendanceUsecase_UpdateAttendance(t *testing.T) {
	ctx := context.Background()

	t.Run("check-out computes working hours", func(t *testing.T) {
		repo := newMemoryRepo()
		uc := NewAttendanceUsecase(repo, &mockDirectory{})
		created, err := uc.CreateAttendance(ctx, CreateInput{EmployeeID: 7, CheckInTime: nineAM})
		require.NoError(t, err)

		fivePM := nineAM.Add(8 * time.Hour)
		updated, err := uc.UpdateAttendance(ctx, created.ID, UpdateInput{CheckOutTime: &fivePM, Status: entity.StatusPresent})

		require.NoError(t, err)
		require.NotNil(t, updated.WorkingHours)
		assert.Equal(t, 8*time.Hour, *updated.WorkingHours)

		stored, err := uc.GetAttendanceByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 8*time.Hour, *stored.WorkingHours)
	})

	t.Run("nil check-out clears a previous one", func(t *testing.T) {
		repo := newMemoryRepo()
		uc := NewAttendanceUsecase(repo, &mockDirectory{})
		created, err := uc.CreateAttendance(ctx, CreateInput{EmployeeID: 7, CheckInTime: nineAM})
		require.NoError(t, err)
		out := nineAM.Add(time.Hour)
		_, err = uc.UpdateAttendance(ctx, created.ID, UpdateInput{CheckOutTime: &out, Status: entity.StatusLate, Notes: ptr("late")})
		require.NoError(t, err)

		updated, err := uc.UpdateAttendance(ctx, created.ID, UpdateInput{Status: entity.StatusAbsent})

		require.NoError(t, err)
		assert.Nil(t, updated.CheckOutTime)
		assert.Nil(t, updated.WorkingHours)
		assert.Nil(t, updated.Notes)
		assert.Equal(t, entity.StatusAbsent, updated.Status)
	})

	t.Run("rejected updates leave the record unchanged", func(t *testing.T) {
		before := nineAM.Add(-time.Minute)
		tests := []struct {
			name    string
			in      UpdateInput
			wantErr error
		}{
			{"status outside the enum", UpdateInput{Status: "OnLeave"}, ErrInvalidStatus},
			{"empty status", UpdateInput{}, ErrInvalidStatus},
			{"check-out before check-in", UpdateInput{CheckOutTime: &before, Status: entity.StatusPresent}, ErrInvalidCheckOut},
			{"notes too long", UpdateInput{Status: entity.StatusPresent, Notes: ptr(strings.Repeat("n", 501))}, ErrInvalidInput},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				repo := newMemoryRepo()
				uc := NewAttendanceUsecase(repo, &mockDirectory{})
				created, err := uc.CreateAttendance(ctx, CreateInput{EmployeeID: 7, CheckInTime: nineAM, Notes: ptr("keep")})
				require.NoError(t, err)
				writes := repo.writes

				_, err = uc.UpdateAttendance(ctx, created.ID, tt.in)

				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, writes, repo.writes)
				stored, err := uc.GetAttendanceByID(ctx, created.ID)
				require.NoError(t, err)
				assert.Equal(t, entity.StatusPresent, stored.Status)
				assert.Equal(t, "keep", *stored.Notes)
			})
		}
	})

	t.Run("missing record", func(t *testing.T) {
		uc := NewAttendanceUsecase(newMemoryRepo(), &mockDirectory{})

		_, err := uc.UpdateAttendance(ctx, 404, UpdateInput{Status: entity.StatusPresent})

		assert.ErrorIs(t, err, ErrAttendanceNotFound)
	})

	t.Run("storage failure is wrapped", func(t *testing.T) {
		repo := newMemoryRepo()
		uc := NewAttendanceUsecase(repo, &mockDirectory{})
		created, err := uc.CreateAttendance(ctx, CreateInput{EmployeeID: 7, CheckInTime: nineAM})
		require.NoError(t, err)

		// FindByID succeeds from the map; make only Update fail.
		failing := &failingUpdateRepo{memoryRepo: repo, err: errors.New("deadlock")}
		uc = NewAttendanceUsecase(failing, &mockDirectory{})
		_, err = uc.UpdateAttendance(ctx, created.ID, UpdateInput{Status: entity.StatusLate})

		assert.ErrorIs(t, err, failing.err)
		assert.Contains(t, err.Error(), "failed to update attendance")
	})
}

type failingUpdateRepo struct {
	*memoryRepo
	err error
}

func (f *failingUpdateRepo) Update(ctx context.Context, a *entity.Attendance) error {
	return f.err
}

func TestAttendanceUsecase_GetAttendanceByEmployee(t *testing.T) {
	ctx := context.Background()

	t.Run("no records yields an empty, non-nil slice", func(t *testing.T) {
		uc := NewAttendanceUsecase(newMemoryRepo(), &mockDirectory{})

		records, err := uc.GetAttendanceByEmployee(ctx, 42)

		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	})

	t.Run("deleted records are excluded", func(t *testing.T) {
		uc := NewAttendanceUsecase(newMemoryRepo(), &mockDirectory{})
		a, err := uc.CreateAttendance(ctx, CreateInput{EmployeeID: 42, CheckInTime: nineAM})
		require.NoError(t, err)
		_, err = uc.CreateAttendance(ctx, CreateInput{EmployeeID: 42, CheckInTime: nineAM.Add(24 * time.Hour)})
		require.NoError(t, err)
		_, err = uc.DeleteAttendance(ctx, a.ID)
		require.NoError(t, err)

		records, err := uc.GetAttendanceByEmployee(ctx, 42)

		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := newMemoryRepo()
		repo.failWith = errors.New("timeout")
		uc := NewAttendanceUsecase(repo, &mockDirectory{})

		_, err := uc.GetAttendanceByEmployee(ctx, 42)

		assert.ErrorIs(t, err, repo.failWith)
	})
}

func TestAttendanceUsecase_DeleteAttendance(t *testing.T) {
	ctx := context.Background()
	uc := NewAttendanceUsecase(newMemoryRepo(), &mockDirectory{})
	a, err := uc.CreateAttendance(ctx, CreateInput{EmployeeID: 7, CheckInTime: nineAM})
	require.NoError(t, err)

	ok, err := uc.DeleteAttendance(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = uc.GetAttendanceByID(ctx, a.ID)
	assert.ErrorIs(t, err, ErrAttendanceNotFound)

	ok, err = uc.DeleteAttendance(ctx, a.ID)
	assert.ErrorIs(t, err, ErrAttendanceNotFound)
	assert.False(t, ok)

	_, err = uc.UpdateAttendance(ctx, a.ID, UpdateInput{Status: entity.StatusPresent})
	assert.ErrorIs(t, err, ErrAttendanceNotFound)
}

func TestProperty_WorkingHoursEqualsCheckOutOffset(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).Unix()

	properties.Property("working hours equal check-out minus check-in", prop.ForAll(
		func(checkInOffset, workedSeconds int64) bool {
			ctx := context.Background()
			uc := NewAttendanceUsecase(newMemoryRepo(), &mockDirectory{})

			checkIn := time.Unix(base+checkInOffset, 0).UTC()
			a, err := uc.CreateAttendance(ctx, CreateInput{EmployeeID: 1, CheckInTime: checkIn})
			if err != nil {
				return false
			}

			checkOut := checkIn.Add(time.Duration(workedSeconds) * time.Second)
			updated, err := uc.UpdateAttendance(ctx, a.ID, UpdateInput{CheckOutTime: &checkOut, Status: entity.StatusPresent})
			if err != nil || updated.WorkingHours == nil {
				return false
			}
			return *updated.WorkingHours == time.Duration(workedSeconds)*time.Second
		},
		gen.Int64Range(0, 5*365*24*3600),
		gen.Int64Range(0, 7*24*3600),
	))

	properties.TestingRun(t)
}
