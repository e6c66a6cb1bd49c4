package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/ajit432/hospital-leave/internal"
	"github.com/ajit432/hospital-leave/internal/auth"
	authPostgres "github.com/ajit432/hospital-leave/internal/auth/postgres"
	"github.com/ajit432/hospital-leave/internal/core/database/dbtest"
	"github.com/ajit432/hospital-leave/internal/transport"
	"github.com/ajit432/hospital-leave/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Auth Handler", func() {
	var router chi.Router

	ginkgo.BeforeEach(func() {
		db, err := dbtest.NewSQLite()
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		_, err = dbtest.SeedUser(db, "Dr. Karev", "karev@hospital.test", "doctor")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		tokens := auth.NewJWTTokenGenerator(accessSecret, refreshSecret, time.Minute, time.Hour)
		service := auth.NewService(authPostgres.NewRepository(db), tokens, logger.Discard())
		handler := auth.NewHandler(transport.NewBaseHandler(logger.Discard()), service)

		router = chi.NewRouter()
		router.Post("/auth/login", handler.Login)
		router.Post("/auth/refresh", handler.RefreshToken)
		router.Group(func(r chi.Router) {
			r.Use(handler.AuthMiddleware)
			r.Post("/auth/logout", handler.Logout)
			r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"user_id": internal.UserIDFromContext(r.Context()),
					"role":    internal.RoleFromContext(r.Context()),
				})
			})
		})
	})

	login := func(email, password string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]string{"email": email, "password": password})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body)))
		return w
	}

	ginkgo.It("logs in and authenticates follow-up requests", func() {
		w := login("karev@hospital.test", dbtest.Password)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))

		var resp auth.LoginResponse
		gomega.Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(gomega.Succeed())

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)

		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(w.Body.String()).To(gomega.ContainSubstring(`"role":"doctor"`))
	})

	ginkgo.It("answers bad credentials with 401", func() {
		w := login("karev@hospital.test", "wrong")
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(w.Body.String()).To(gomega.ContainSubstring("INVALID_CREDENTIALS"))
	})

	ginkgo.It("rejects unknown JSON fields", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login",
			bytes.NewBufferString(`{"email":"karev@hospital.test","password":"x","remember":true}`)))
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusBadRequest))
	})

	ginkgo.It("requires a bearer token", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
	})

	ginkgo.It("rejects a garbage token", func() {
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
	})
})
