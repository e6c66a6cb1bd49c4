package user_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"

	"github.com/ajit432/hospital-leave/internal"
	"github.com/ajit432/hospital-leave/internal/core/database"
	"github.com/ajit432/hospital-leave/internal/core/database/dbtest"
	"github.com/ajit432/hospital-leave/internal/transport"
	"github.com/ajit432/hospital-leave/internal/user"
	userPostgres "github.com/ajit432/hospital-leave/internal/user/postgres"
	"github.com/ajit432/hospital-leave/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("User Handler", func() {
	var (
		router   chi.Router
		doctorID int64
	)

	BeforeEach(func() {
		db, err := dbtest.NewSQLite()
		Expect(err).NotTo(HaveOccurred())
		service := user.NewService(userPostgres.NewUserRepository(db), database.NewTransactor(db), bcrypt.MinCost, logger.Discard())
		handler := user.NewHandler(transport.NewBaseHandler(logger.Discard()), service)

		router = chi.NewRouter()
		router.Get("/users/me", handler.GetCurrentUser)
		router.Put("/users/me", handler.UpdateCurrentUser)
		router.Put("/users/me/password", handler.ChangePassword)
		router.Get("/leave/doctors", handler.GetDoctors)
		router.Post("/leave/doctors", handler.RegisterDoctor)
		router.Patch("/leave/doctors/{doctorId}/deactivate", handler.DeactivateDoctor)

		doctor, err := dbtest.SeedUser(db, "Dr. Avery", "avery@hospital.test", "doctor")
		Expect(err).NotTo(HaveOccurred())
		doctorID = doctor.ID
	})

	as := func(req *http.Request, id int64, role string) *http.Request {
		return req.WithContext(internal.ContextWithIdentity(req.Context(), id, role))
	}

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("serves the caller's profile", func() {
		w := serve(as(httptest.NewRequest(http.MethodGet, "/users/me", nil), doctorID, "doctor"))
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"email":"avery@hospital.test"`))
		Expect(w.Body.String()).NotTo(ContainSubstring("password"))
	})

	It("requires authentication", func() {
		w := serve(httptest.NewRequest(http.MethodGet, "/users/me", nil))
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("answers a wrong current password with 400", func() {
		body := `{"current_password":"nope","new_password":"Another1"}`
		w := serve(as(httptest.NewRequest(http.MethodPut, "/users/me/password", bytes.NewBufferString(body)), doctorID, "doctor"))
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("WRONG_PASSWORD"))
	})

	It("registers a doctor and reports duplicates as 409", func() {
		payload, _ := json.Marshal(map[string]string{
			"name":        "Dr. Kepner",
			"email":       "kepner@hospital.test",
			"password":    "Trauma99",
			"employee_id": "EMP-200",
		})
		w := serve(httptest.NewRequest(http.MethodPost, "/leave/doctors", bytes.NewReader(payload)))
		Expect(w.Code).To(Equal(http.StatusCreated))

		w = serve(httptest.NewRequest(http.MethodPost, "/leave/doctors", bytes.NewReader(payload)))
		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("deactivates a doctor then reports the no-op as 409", func() {
		path := "/leave/doctors/" + strconv.FormatInt(doctorID, 10) + "/deactivate"
		Expect(serve(httptest.NewRequest(http.MethodPatch, path, nil)).Code).To(Equal(http.StatusOK))
		Expect(serve(httptest.NewRequest(http.MethodPatch, path, nil)).Code).To(Equal(http.StatusConflict))

		w := serve(httptest.NewRequest(http.MethodGet, "/leave/doctors?status=inactive", nil))
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("avery@hospital.test"))
	})

	It("rejects an unknown status filter", func() {
		w := serve(httptest.NewRequest(http.MethodGet, "/leave/doctors?status=retired", nil))
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
