package category_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	apperrors "github.com/ajit432/hospital-leave/internal"
	"github.com/ajit432/hospital-leave/internal/category"
	"github.com/ajit432/hospital-leave/internal/core/common/query"
	"github.com/ajit432/hospital-leave/internal/core/database/dbtest"
	categoryDatamodel "github.com/ajit432/hospital-leave/internal/core/datamodel/category"
	"github.com/ajit432/hospital-leave/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCategoryService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Category Service Suite")
}

// MockRepository implements category.RepositoryAPI for testing
type MockRepository struct {
	categories   map[int64]*categoryDatamodel.LeaveCategory
	applications map[int64]int64
	balances     map[int64]int64
	nextID       int64
	shouldFail   bool
	failError    error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		categories:   make(map[int64]*categoryDatamodel.LeaveCategory),
		applications: make(map[int64]int64),
		balances:     make(map[int64]int64),
		nextID:       1,
	}
}

func (m *MockRepository) List(ctx context.Context, active *bool) ([]*categoryDatamodel.LeaveCategory, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*categoryDatamodel.LeaveCategory
	for _, cat := range m.categories {
		if active != nil && cat.IsActive != *active {
			continue
		}
		result = append(result, cat)
	}
	return result, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*categoryDatamodel.LeaveCategory, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	cat, ok := m.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *cat
	return &cp, nil
}

func (m *MockRepository) GetByName(ctx context.Context, name string) (*categoryDatamodel.LeaveCategory, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, cat := range m.categories {
		if strings.EqualFold(cat.Name, strings.TrimSpace(name)) {
			cp := *cat
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) Create(ctx context.Context, cat *categoryDatamodel.LeaveCategory) error {
	if m.shouldFail {
		return m.failError
	}
	cat.ID = m.nextID
	m.nextID++
	cp := *cat
	m.categories[cat.ID] = &cp
	return nil
}

func (m *MockRepository) Update(ctx context.Context, cat *categoryDatamodel.LeaveCategory) error {
	if m.shouldFail {
		return m.failError
	}
	cp := *cat
	m.categories[cat.ID] = &cp
	return nil
}

func (m *MockRepository) SetActive(ctx context.Context, id int64, active bool) error {
	if m.shouldFail {
		return m.failError
	}
	if cat, ok := m.categories[id]; ok {
		cat.IsActive = active
	}
	return nil
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.categories, id)
	return nil
}

func (m *MockRepository) CountApplications(ctx context.Context, id int64) (int64, error) {
	return m.applications[id], nil
}

func (m *MockRepository) CountBalances(ctx context.Context, id int64) (int64, error) {
	return m.balances[id], nil
}

// Helper methods for testing
func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockRepository) AddCategory(name string, maxDays int, active bool) int64 {
	id := m.nextID
	m.nextID++
	m.categories[id] = &categoryDatamodel.LeaveCategory{
		ID:       id,
		Name:     name,
		MaxDays:  maxDays,
		IsActive: active,
	}
	return id
}

var _ = Describe("Category Service", func() {
	var (
		mockRepo *MockRepository
		tx       *dbtest.PassthroughTransactor
		service  *category.Service
		ctx      context.Context
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		tx = &dbtest.PassthroughTransactor{}
		service = category.NewService(mockRepo, tx, logger.Discard())
		ctx = context.Background()
	})

	Describe("GetCategories", func() {
		BeforeEach(func() {
			mockRepo.AddCategory("Sick Leave", 10, true)
			mockRepo.AddCategory("Annual Leave", 20, true)
			mockRepo.AddCategory("Study Leave", 5, false)
		})

		It("returns only active categories by default filter", func() {
			categories, err := service.GetCategories(ctx, query.FilterActive)
			Expect(err).NotTo(HaveOccurred())
			Expect(categories).To(HaveLen(2))
			for _, c := range categories {
				Expect(c.IsActive).To(BeTrue())
			}
		})

		It("returns inactive categories when asked", func() {
			categories, err := service.GetCategories(ctx, query.FilterInactive)
			Expect(err).NotTo(HaveOccurred())
			Expect(categories).To(HaveLen(1))
			Expect(categories[0].Name).To(Equal("Study Leave"))
		})

		It("returns every category for the all filter", func() {
			categories, err := service.GetCategories(ctx, query.FilterAll)
			Expect(err).NotTo(HaveOccurred())
			Expect(categories).To(HaveLen(3))
		})

		It("wraps repository failures as internal errors", func() {
			mockRepo.SetShouldFail(true, errors.New("connection refused"))

			categories, err := service.GetCategories(ctx, query.FilterAll)
			Expect(categories).To(BeNil())
			Expect(apperrors.HasType(err, apperrors.ErrorTypeInternal)).To(BeTrue())

			var appErr *apperrors.AppError
			Expect(errors.As(err, &appErr)).To(BeTrue())
			Expect(appErr.Message).To(Equal("Failed to fetch leave categories"))
			Expect(errors.Unwrap(err)).To(MatchError("connection refused"))

			body, err := json.Marshal(appErr)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).NotTo(ContainSubstring("connection refused"))
		})
	})

	Describe("Create", func() {
		It("creates an active category inside a transaction", func() {
			created, err := service.Create(ctx, category.CategoryDTO{
				Name:        "  Sick Leave ",
				MaxDays:     10,
				Description: "Illness",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).NotTo(BeZero())
			Expect(created.Name).To(Equal("Sick Leave"))
			Expect(created.IsActive).To(BeTrue())
			Expect(tx.Calls).To(Equal(1))
		})

		It("rejects a duplicate name regardless of case", func() {
			mockRepo.AddCategory("Sick Leave", 10, true)

			_, err := service.Create(ctx, category.CategoryDTO{Name: "sick leave", MaxDays: 5})
			Expect(apperrors.HasCode(err, apperrors.ErrCodeCategoryNameTaken)).To(BeTrue())
		})

		It("rejects a non-positive max_days", func() {
			_, err := service.Create(ctx, category.CategoryDTO{Name: "Sick Leave", MaxDays: 0})
			Expect(apperrors.HasType(err, apperrors.ErrorTypeValidation)).To(BeTrue())
		})

		It("rejects a blank name", func() {
			_, err := service.Create(ctx, category.CategoryDTO{Name: "   ", MaxDays: 3})
			Expect(apperrors.HasType(err, apperrors.ErrorTypeValidation)).To(BeTrue())
		})
	})

	Describe("Update", func() {
		var id int64

		BeforeEach(func() {
			id = mockRepo.AddCategory("Sick Leave", 10, true)
			mockRepo.AddCategory("Annual Leave", 20, true)
		})

		It("updates fields and allows keeping its own name", func() {
			updated, err := service.Update(ctx, id, category.CategoryDTO{Name: "Sick Leave", MaxDays: 12})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.MaxDays).To(Equal(12))
		})

		It("rejects taking another category's name", func() {
			_, err := service.Update(ctx, id, category.CategoryDTO{Name: "Annual Leave", MaxDays: 12})
			Expect(apperrors.HasCode(err, apperrors.ErrCodeCategoryNameTaken)).To(BeTrue())
		})

		It("returns not found for an unknown id", func() {
			_, err := service.Update(ctx, 999, category.CategoryDTO{Name: "X Leave", MaxDays: 1})
			Expect(apperrors.HasCode(err, apperrors.ErrCodeCategoryNotFound)).To(BeTrue())
		})
	})

	Describe("Delete", func() {
		var id int64

		BeforeEach(func() {
			id = mockRepo.AddCategory("Sick Leave", 10, true)
		})

		It("deletes an unused category", func() {
			Expect(service.Delete(ctx, id)).To(Succeed())
			_, err := service.GetByID(ctx, id)
			Expect(apperrors.HasCode(err, apperrors.ErrCodeCategoryNotFound)).To(BeTrue())
		})

		It("refuses when applications reference it", func() {
			mockRepo.applications[id] = 2

			err := service.Delete(ctx, id)
			Expect(apperrors.HasCode(err, apperrors.ErrCodeCategoryInUse)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("leave applications"))
		})

		It("refuses when balances reference it", func() {
			mockRepo.balances[id] = 1

			err := service.Delete(ctx, id)
			Expect(apperrors.HasCode(err, apperrors.ErrCodeCategoryInUse)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("leave balance"))
		})
	})

	Describe("Activate and Deactivate", func() {
		It("toggles the active flag", func() {
			id := mockRepo.AddCategory("Sick Leave", 10, true)

			cat, err := service.Deactivate(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(cat.IsActive).To(BeFalse())

			cat, err = service.Activate(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(cat.IsActive).To(BeTrue())
		})

		It("reports a conflict when the state does not change", func() {
			id := mockRepo.AddCategory("Sick Leave", 10, true)

			_, err := service.Activate(ctx, id)
			Expect(apperrors.HasCode(err, apperrors.ErrCodeCategoryStateChange)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("already active"))
		})
	})
})
