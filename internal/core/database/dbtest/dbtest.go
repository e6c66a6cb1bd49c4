// Package dbtest builds throwaway SQLite databases for repository and
// workflow tests.
package dbtest

import (
	"context"
	"fmt"
	"time"

	balanceDatamodel "github.com/ajit432/hospital-leave/internal/core/datamodel/balance"
	categoryDatamodel "github.com/ajit432/hospital-leave/internal/core/datamodel/category"
	leaveDatamodel "github.com/ajit432/hospital-leave/internal/core/datamodel/leave"
	userDatamodel "github.com/ajit432/hospital-leave/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLite opens an in-memory database with every table migrated. The pool
// is pinned to one connection because each SQLite memory connection is a
// separate database.
func NewSQLite() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&userDatamodel.User{},
		&categoryDatamodel.LeaveCategory{},
		&balanceDatamodel.DoctorLeaveBalance{},
		&leaveDatamodel.LeaveApplication{},
	); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return db, nil
}

// PassthroughTransactor runs the callback directly; used with mocks.
type PassthroughTransactor struct {
	Calls int
}

func (p *PassthroughTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	p.Calls++
	return fn(ctx)
}

const Password = "Passw0rd!"

// SeedUser inserts an active user whose password is Password.
func SeedUser(db *gorm.DB, name, email, role string) (*userDatamodel.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	empID := fmt.Sprintf("EMP-%s", email)
	u := &userDatamodel.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Department:   "General Medicine",
		EmployeeID:   &empID,
		IsActive:     true,
	}
	return u, db.Create(u).Error
}

func SeedCategory(db *gorm.DB, name string, maxDays int) (*categoryDatamodel.LeaveCategory, error) {
	c := &categoryDatamodel.LeaveCategory{
		Name:        name,
		MaxDays:     maxDays,
		Description: name,
		IsActive:    true,
	}
	return c, db.Create(c).Error
}

func SeedBalance(db *gorm.DB, doctorID, categoryID int64, year, total, used int) (*balanceDatamodel.DoctorLeaveBalance, error) {
	b := &balanceDatamodel.DoctorLeaveBalance{
		DoctorID:      doctorID,
		CategoryID:    categoryID,
		Year:          year,
		TotalDays:     total,
		UsedDays:      used,
		RemainingDays: total - used,
	}
	return b, db.Create(b).Error
}

func Date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// FixedClock returns a now function frozen at the given instant.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
