package auth_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/ajit432/hospital-leave/internal"
	"github.com/ajit432/hospital-leave/internal/auth"
	"github.com/ajit432/hospital-leave/pkg/logger"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Role policy", func() {
	var checker *auth.CasbinPermissionChecker

	ginkgo.BeforeEach(func() {
		var err error
		checker, err = auth.NewPermissionChecker()
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
	})

	ginkgo.DescribeTable("Allowed",
		func(role string, perm auth.Permission, want bool) {
			ok, err := checker.Allowed(role, perm)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(ok).To(gomega.Equal(want))
		},
		ginkgo.Entry("doctor applies", "doctor", auth.PermApplyLeave, true),
		ginkgo.Entry("doctor reads own leaves", "doctor", auth.PermReadOwnLeave, true),
		ginkgo.Entry("doctor cannot review", "doctor", auth.PermReviewLeave, false),
		ginkgo.Entry("doctor cannot manage categories", "doctor", auth.PermManageCategories, false),
		ginkgo.Entry("admin reviews", "admin", auth.PermReviewLeave, true),
		ginkgo.Entry("admin inherits apply", "admin", auth.PermApplyLeave, true),
		ginkgo.Entry("admin reads summary", "admin", auth.PermReadSummary, true),
		ginkgo.Entry("unknown role", "janitor", auth.PermApplyLeave, false),
		ginkgo.Entry("no role", "", auth.PermApplyLeave, false),
	)

	ginkgo.Describe("RBAC middleware", func() {
		var handler http.Handler

		ginkgo.BeforeEach(func() {
			rbac := auth.NewRBACAuthorization(checker, logger.Discard())
			handler = rbac.RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}))
		})

		serve := func(userID int64, role string) int {
			req := httptest.NewRequest(http.MethodGet, "/leave/summary", nil)
			if userID != 0 {
				req = req.WithContext(internal.ContextWithIdentity(req.Context(), userID, role))
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			return w.Code
		}

		ginkgo.It("lets admins through", func() {
			gomega.Expect(serve(1, "admin")).To(gomega.Equal(http.StatusNoContent))
		})

		ginkgo.It("forbids doctors", func() {
			gomega.Expect(serve(2, "doctor")).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("rejects anonymous requests", func() {
			gomega.Expect(serve(0, "")).To(gomega.Equal(http.StatusUnauthorized))
		})
	})
})
