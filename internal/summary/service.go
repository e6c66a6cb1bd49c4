package summary

import (
	"context"
	"log/slog"
	"time"

	errors "github.com/ajit432/hospital-leave/internal"
	"github.com/ajit432/hospital-leave/internal/balance"
	"github.com/ajit432/hospital-leave/internal/core/common/query"
	"github.com/ajit432/hospital-leave/internal/core/common/workday"
	"github.com/ajit432/hospital-leave/internal/leave"
)

type RepositoryAPI interface {
	StatusCounts(ctx context.Context, from, to time.Time) ([]StatusCount, error)
	CategoryUsage(ctx context.Context, year int) ([]*CategoryUsage, error)
	TopRequesters(ctx context.Context, from, to time.Time, limit int) ([]*Requester, error)
	DoctorStats(ctx context.Context, doctorID int64, from, to time.Time) (*DoctorStats, error)
}

type BalanceReader interface {
	GetLeaveBalance(ctx context.Context, doctorID int64, year int) (*balance.BalanceResponse, error)
}

type LeaveLister interface {
	GetAllLeaves(ctx context.Context, filter leave.ListFilter) (*leave.LeavesResponse, error)
}

const recentLeavesLimit = 5

type Service struct {
	repo     RepositoryAPI
	balances BalanceReader
	leaves   LeaveLister
	clock    workday.Clock
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, balances BalanceReader, leaves LeaveLister, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		balances: balances,
		leaves:   leaves,
		clock:    workday.SystemClock(nil),
		logger:   logger,
	}
}

func (s *Service) WithClock(c workday.Clock) *Service {
	s.clock = c
	return s
}

// GetLeaveSummary aggregates one calendar year. Applications are bucketed
// by applied_at, balances by their year column.
func (s *Service) GetLeaveSummary(ctx context.Context, year int) (*LeaveSummary, error) {
	if year <= 0 {
		year = s.clock.Year()
	}
	from, to := workday.YearBounds(year)

	counts, err := s.repo.StatusCounts(ctx, from, to)
	if err != nil {
		s.logger.Error("failed to load status counts", "error", err, "year", year)
		return nil, errors.NewInternalError("Failed to fetch leave summary", err)
	}

	usage, err := s.repo.CategoryUsage(ctx, year)
	if err != nil {
		s.logger.Error("failed to load category usage", "error", err, "year", year)
		return nil, errors.NewInternalError("Failed to fetch leave summary", err)
	}
	for _, u := range usage {
		u.UtilizationPercent = Utilization(u.TotalUsed, u.TotalAllocated)
	}

	top, err := s.repo.TopRequesters(ctx, from, to, TopRequestersLimit)
	if err != nil {
		s.logger.Error("failed to load top requesters", "error", err, "year", year)
		return nil, errors.NewInternalError("Failed to fetch leave summary", err)
	}

	if usage == nil {
		usage = []*CategoryUsage{}
	}
	if top == nil {
		top = []*Requester{}
	}
	return &LeaveSummary{
		Year:                year,
		ApplicationsSummary: NewStatusCounts(counts),
		CategoryUsage:       usage,
		TopRequesters:       top,
	}, nil
}

func (s *Service) GetDoctorDashboard(ctx context.Context, doctorID int64) (*Dashboard, error) {
	year := s.clock.Year()

	bal, err := s.balances.GetLeaveBalance(ctx, doctorID, year)
	if err != nil {
		return nil, err
	}

	pending, err := s.leaves.GetAllLeaves(ctx, leave.ListFilter{
		DoctorID: doctorID,
		Status:   leave.StatusPending,
		Page:     query.Page{Page: 1, Limit: query.MaxLimit},
	})
	if err != nil {
		return nil, err
	}

	recent, err := s.leaves.GetAllLeaves(ctx, leave.ListFilter{
		DoctorID: doctorID,
		Page:     query.Page{Page: 1, Limit: recentLeavesLimit},
	})
	if err != nil {
		return nil, err
	}

	from, to := workday.YearBounds(year)
	stats, err := s.repo.DoctorStats(ctx, doctorID, from, to)
	if err != nil {
		s.logger.Error("failed to load doctor statistics", "error", err, "doctor_id", doctorID)
		return nil, errors.NewInternalError("Failed to load dashboard data", err)
	}

	return &Dashboard{
		Year:          year,
		LeaveBalance:  bal.Balance,
		PendingLeaves: pending.Leaves,
		RecentLeaves:  recent.Leaves,
		Statistics:    stats,
	}, nil
}
