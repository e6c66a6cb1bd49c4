package balance_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"

	"github.com/ajit432/hospital-leave/internal"
	"github.com/ajit432/hospital-leave/internal/balance"
	balancePostgres "github.com/ajit432/hospital-leave/internal/balance/postgres"
	"github.com/ajit432/hospital-leave/internal/core/database"
	"github.com/ajit432/hospital-leave/internal/core/database/dbtest"
	"github.com/ajit432/hospital-leave/internal/core/events"
	"github.com/ajit432/hospital-leave/internal/transport"
	"github.com/ajit432/hospital-leave/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Balance Handler", func() {
	var (
		router   chi.Router
		doctorID int64
		sickID   int64
	)

	BeforeEach(func() {
		db, err := dbtest.NewSQLite()
		Expect(err).NotTo(HaveOccurred())

		service := balance.NewService(
			balancePostgres.NewBalanceRepository(db),
			database.NewTransactor(db),
			events.NewEventBus(logger.Discard()),
			logger.Discard(),
		)
		handler := balance.NewHandler(transport.NewBaseHandler(logger.Discard()), service)

		router = chi.NewRouter()
		router.Get("/leave/balance", handler.GetLeaveBalance)
		router.Get("/leave/doctors/{doctorId}/balance", handler.GetDoctorLeaveBalance)
		router.Put("/leave/doctors/{doctorId}/allocation", handler.SetDoctorLeaveAllocation)

		doctor, err := dbtest.SeedUser(db, "Dr. Yang", "yang@hospital.test", "doctor")
		Expect(err).NotTo(HaveOccurred())
		doctorID = doctor.ID
		sick, err := dbtest.SeedCategory(db, "Sick Leave", 10)
		Expect(err).NotTo(HaveOccurred())
		sickID = sick.ID
	})

	It("requires an authenticated user for the own balance", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leave/balance", nil))
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("rejects a malformed year", func() {
		req := httptest.NewRequest(http.MethodGet, "/leave/balance?year=abc", nil)
		req = req.WithContext(internal.ContextWithIdentity(req.Context(), doctorID, "doctor"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("sets an allocation and reads it back", func() {
		body, _ := json.Marshal(map[string]interface{}{
			"category_id": sickID,
			"total_days":  15,
			"year":        2024,
		})
		path := "/leave/doctors/" + strconv.FormatInt(doctorID, 10)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, path+"/allocation", bytes.NewReader(body)))
		Expect(w.Code).To(Equal(http.StatusOK))

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path+"/balance?year=2024", nil))
		Expect(w.Code).To(Equal(http.StatusOK))

		var resp balance.BalanceResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Year).To(Equal(2024))
		Expect(resp.Doctor.Email).To(Equal("yang@hospital.test"))
		Expect(resp.Balance).To(HaveLen(1))
		Expect(resp.Balance[0].TotalDays).To(Equal(15))
	})

	It("returns 404 for an unknown doctor", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leave/doctors/999/balance", nil))
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})
