package category_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/ajit432/hospital-leave/internal/category"
	categoryPostgres "github.com/ajit432/hospital-leave/internal/category/postgres"
	"github.com/ajit432/hospital-leave/internal/core/database"
	"github.com/ajit432/hospital-leave/internal/core/database/dbtest"
	"github.com/ajit432/hospital-leave/internal/transport"
	"github.com/ajit432/hospital-leave/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Category Handler Integration", func() {
	var (
		db     *gorm.DB
		router chi.Router
		sickID int64
	)

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		var err error
		db, err = dbtest.NewSQLite()
		Expect(err).NotTo(HaveOccurred())

		repo := categoryPostgres.NewCategoryRepository(db)
		service := category.NewService(repo, database.NewTransactor(db), logger.Discard())
		handler := category.NewHandler(transport.NewBaseHandler(logger.Discard()), service)

		router = chi.NewRouter()
		router.Get("/leave/categories", handler.GetCategories)
		router.Post("/leave/categories", handler.CreateCategory)
		router.Put("/leave/categories/{id}", handler.UpdateCategory)
		router.Delete("/leave/categories/{id}", handler.DeleteCategory)
		router.Patch("/leave/categories/{id}/activate", handler.ActivateCategory)
		router.Patch("/leave/categories/{id}/deactivate", handler.DeactivateCategory)

		sick, err := dbtest.SeedCategory(db, "Sick Leave", 10)
		Expect(err).NotTo(HaveOccurred())
		sickID = sick.ID
		_, err = dbtest.SeedCategory(db, "Annual Leave", 20)
		Expect(err).NotTo(HaveOccurred())
		study, err := dbtest.SeedCategory(db, "Study Leave", 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(db.Model(study).Update("is_active", false).Error).To(Succeed())
	})

	It("lists active categories by default", func() {
		w := do(http.MethodGet, "/leave/categories", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var response category.CategoriesResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Status).To(Equal("active"))

		names := make([]string, len(response.Categories))
		for i, cat := range response.Categories {
			names[i] = cat.Name
		}
		Expect(names).To(Equal([]string{"Annual Leave", "Sick Leave"}))
	})

	It("lists all categories with status=all", func() {
		w := do(http.MethodGet, "/leave/categories?status=all", nil)

		var response category.CategoriesResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Categories).To(HaveLen(3))
	})

	It("rejects an unknown status filter", func() {
		w := do(http.MethodGet, "/leave/categories?status=archived", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("creates a category", func() {
		w := do(http.MethodPost, "/leave/categories", map[string]interface{}{
			"name":        "Maternity Leave",
			"max_days":    90,
			"description": "Maternity",
		})

		Expect(w.Code).To(Equal(http.StatusCreated))
		var response category.CategoryResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Category.ID).NotTo(BeZero())
		Expect(response.Category.IsActive).To(BeTrue())
	})

	It("returns 409 for a duplicate name", func() {
		w := do(http.MethodPost, "/leave/categories", map[string]interface{}{
			"name":     "SICK LEAVE",
			"max_days": 3,
		})
		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("returns 400 for unknown fields", func() {
		w := do(http.MethodPost, "/leave/categories", map[string]interface{}{
			"name":     "Other Leave",
			"max_days": 3,
			"colour":   "red",
		})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("updates a category", func() {
		w := do(http.MethodPut, "/leave/categories/"+itoa(sickID), map[string]interface{}{
			"name":     "Sick Leave",
			"max_days": 14,
		})

		Expect(w.Code).To(Equal(http.StatusOK))
		var response category.CategoryResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Category.MaxDays).To(Equal(14))
	})

	It("returns 404 when updating a missing category", func() {
		w := do(http.MethodPut, "/leave/categories/9999", map[string]interface{}{
			"name":     "Ghost Leave",
			"max_days": 1,
		})
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("returns 400 for a malformed id", func() {
		w := do(http.MethodDelete, "/leave/categories/abc", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("deletes an unused category", func() {
		w := do(http.MethodDelete, "/leave/categories/"+itoa(sickID), nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		w = do(http.MethodGet, "/leave/categories?status=all", nil)
		var response category.CategoriesResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Categories).To(HaveLen(2))
	})

	It("refuses to delete a category with an allocated balance", func() {
		_, err := dbtest.SeedBalance(db, 1, sickID, 2026, 10, 0)
		Expect(err).NotTo(HaveOccurred())

		w := do(http.MethodDelete, "/leave/categories/"+itoa(sickID), nil)
		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("deactivates and reactivates", func() {
		w := do(http.MethodPatch, "/leave/categories/"+itoa(sickID)+"/deactivate", nil)
		Expect(w.Code).To(Equal(http.StatusOK))

		w = do(http.MethodPatch, "/leave/categories/"+itoa(sickID)+"/deactivate", nil)
		Expect(w.Code).To(Equal(http.StatusConflict))

		w = do(http.MethodPatch, "/leave/categories/"+itoa(sickID)+"/activate", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
	})
})
