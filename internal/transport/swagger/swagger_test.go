package swagger_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ajit432/hospital-leave/internal/transport/swagger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSwagger(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Swagger Suite")
}

var _ = Describe("OpenAPI document", func() {
	var spec *swagger.Spec

	BeforeEach(func() {
		var err error
		spec, err = swagger.Load(context.Background(), "../../../api/openapi.yml")
		Expect(err).NotTo(HaveOccurred())
	})

	DescribeTable("documents the route",
		func(path, method string) {
			item := spec.Document().Paths.Value(path)
			Expect(item).NotTo(BeNil(), path)
			Expect(item.GetOperation(method)).NotTo(BeNil(), method+" "+path)
		},
		Entry("POST /auth/login", "/auth/login", http.MethodPost),
		Entry("POST /leave/apply", "/leave/apply", http.MethodPost),
		Entry("GET /leave/my-leaves", "/leave/my-leaves", http.MethodGet),
		Entry("PUT /leave/{id}/review", "/leave/{id}/review", http.MethodPut),
		Entry("PATCH /leave/categories/{id}/deactivate", "/leave/categories/{id}/deactivate", http.MethodPatch),
		Entry("PUT /leave/doctors/{doctorId}/allocation", "/leave/doctors/{doctorId}/allocation", http.MethodPut),
		Entry("GET /leave/summary", "/leave/summary", http.MethodGet),
		Entry("GET /users/me/dashboard", "/users/me/dashboard", http.MethodGet),
	)

	It("serves the raw document", func() {
		w := httptest.NewRecorder()
		spec.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.yml", nil))
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(HavePrefix("openapi: 3.0.3"))
	})

	It("fails on a missing file", func() {
		_, err := swagger.Load(context.Background(), "does-not-exist.yml")
		Expect(err).To(HaveOccurred())
	})
})
