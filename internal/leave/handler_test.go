package leave_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"

	"github.com/ajit432/hospital-leave/internal"
	"github.com/ajit432/hospital-leave/internal/leave"
	"github.com/ajit432/hospital-leave/internal/transport"
	"github.com/ajit432/hospital-leave/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Leave Handler", func() {
	var (
		f      *fixture
		router chi.Router
	)

	send := func(method, path string, userID int64, role string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		if userID != 0 {
			req = req.WithContext(internal.ContextWithIdentity(req.Context(), userID, role))
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		f = newFixture("2024-03-01")
		handler := leave.NewHandler(transport.NewBaseHandler(logger.Discard()), f.service)

		router = chi.NewRouter()
		router.Post("/leave/apply", handler.ApplyLeave)
		router.Get("/leave/my-leaves", handler.GetMyLeaves)
		router.Get("/leave/all", handler.GetAllLeaves)
		router.Put("/leave/{id}/review", handler.ReviewLeave)
	})

	It("applies, lists and reviews over HTTP", func() {
		w := send(http.MethodPost, "/leave/apply", f.doctorID, "doctor", map[string]interface{}{
			"category_id": f.sickID,
			"start_date":  "2024-03-04",
			"end_date":    "2024-03-08",
			"reason":      "Seasonal influenza recovery",
		})
		Expect(w.Code).To(Equal(http.StatusCreated))

		var applied leave.ApplyLeaveResponse
		Expect(json.NewDecoder(w.Body).Decode(&applied)).To(Succeed())
		Expect(applied.TotalDays).To(Equal(5))

		w = send(http.MethodGet, "/leave/my-leaves?status=pending", f.doctorID, "doctor", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		var mine leave.LeavesResponse
		Expect(json.NewDecoder(w.Body).Decode(&mine)).To(Succeed())
		Expect(mine.Leaves).To(HaveLen(1))
		Expect(mine.Leaves[0].StartDate.String()).To(Equal("2024-03-04"))
		Expect(mine.Pagination.Page).To(Equal(1))
		Expect(mine.Pagination.Limit).To(Equal(10))

		path := "/leave/" + strconv.FormatInt(applied.ApplicationID, 10) + "/review"
		w = send(http.MethodPut, path, f.adminID, "admin", map[string]string{"status": "approved"})
		Expect(w.Code).To(Equal(http.StatusOK))

		w = send(http.MethodPut, path, f.adminID, "admin", map[string]string{"status": "approved"})
		Expect(w.Code).To(Equal(http.StatusConflict))

		w = send(http.MethodGet, "/leave/all?doctor_id="+strconv.FormatInt(f.doctorID, 10), f.adminID, "admin", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("maps workflow failures to status codes", func() {
		w := send(http.MethodPost, "/leave/apply", f.doctorID, "doctor", map[string]interface{}{
			"category_id": f.sickID,
			"start_date":  "2024-02-01",
			"end_date":    "2024-02-02",
			"reason":      "Seasonal influenza recovery",
		})
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		var body map[string]map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body["error"]["code"]).To(Equal("START_DATE_IN_PAST"))
		Expect(body["error"]["message"]).To(Equal("Leave start date cannot be in the past"))

		w = send(http.MethodPut, "/leave/999/review", f.adminID, "admin", map[string]string{"status": "approved"})
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("rejects bad query parameters and anonymous callers", func() {
		Expect(send(http.MethodGet, "/leave/my-leaves", 0, "", nil).Code).To(Equal(http.StatusUnauthorized))
		Expect(send(http.MethodGet, "/leave/my-leaves?status=lost", f.doctorID, "doctor", nil).Code).To(Equal(http.StatusBadRequest))
		Expect(send(http.MethodGet, "/leave/all?doctor_id=x", f.adminID, "admin", nil).Code).To(Equal(http.StatusBadRequest))
	})
})
