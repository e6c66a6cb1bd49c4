package user_test

import (
	"context"
	"testing"

	apperrors "github.com/ajit432/hospital-leave/internal"
	"github.com/ajit432/hospital-leave/internal/core/common/query"
	"github.com/ajit432/hospital-leave/internal/core/database"
	"github.com/ajit432/hospital-leave/internal/core/database/dbtest"
	userDatamodel "github.com/ajit432/hospital-leave/internal/core/datamodel/user"
	"github.com/ajit432/hospital-leave/internal/user"
	userPostgres "github.com/ajit432/hospital-leave/internal/user/postgres"
	"github.com/ajit432/hospital-leave/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

func ptr(s string) *string { return &s }

var _ = Describe("User Service", func() {
	var (
		db      *gorm.DB
		service *user.Service
		doctor  *userDatamodel.User
		admin   *userDatamodel.User
		ctx     context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = dbtest.NewSQLite()
		Expect(err).NotTo(HaveOccurred())

		service = user.NewService(userPostgres.NewUserRepository(db), database.NewTransactor(db), bcrypt.MinCost, logger.Discard())
		ctx = context.Background()

		doctor, err = dbtest.SeedUser(db, "Dr. Torres", "torres@hospital.test", "doctor")
		Expect(err).NotTo(HaveOccurred())
		admin, err = dbtest.SeedUser(db, "Dr. Webber", "webber@hospital.test", "admin")
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("profile", func() {
		It("returns the caller without the password hash", func() {
			p, err := service.GetProfile(ctx, doctor.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Email).To(Equal("torres@hospital.test"))
			Expect(p.Role).To(Equal("doctor"))
		})

		It("reports a missing user", func() {
			_, err := service.GetProfile(ctx, 4242)
			Expect(apperrors.HasCode(err, apperrors.ErrCodeUserNotFound)).To(BeTrue())
		})

		It("updates only the supplied fields", func() {
			p, err := service.UpdateProfile(ctx, doctor.ID, user.UpdateProfileDTO{Phone: ptr("+14155550100")})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Phone).To(Equal("+14155550100"))
			Expect(p.Name).To(Equal("Dr. Torres"))
			Expect(p.Department).To(Equal("General Medicine"))

			stored, err := service.GetProfile(ctx, doctor.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Phone).To(Equal("+14155550100"))
		})

		It("rejects a blank name and a malformed phone", func() {
			_, err := service.UpdateProfile(ctx, doctor.ID, user.UpdateProfileDTO{Name: ptr("   ")})
			Expect(apperrors.HasType(err, apperrors.ErrorTypeValidation)).To(BeTrue())

			_, err = service.UpdateProfile(ctx, doctor.ID, user.UpdateProfileDTO{Phone: ptr("call me")})
			Expect(apperrors.HasType(err, apperrors.ErrorTypeValidation)).To(BeTrue())
		})
	})

	Describe("ChangePassword", func() {
		It("replaces the hash once the current password checks out", func() {
			Expect(service.ChangePassword(ctx, doctor.ID, user.ChangePasswordDTO{
				CurrentPassword: dbtest.Password,
				NewPassword:     "NewSecret1",
			})).To(Succeed())

			var stored userDatamodel.User
			Expect(db.First(&stored, doctor.ID).Error).To(Succeed())
			Expect(bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("NewSecret1"))).To(Succeed())
		})

		It("refuses a wrong current password", func() {
			err := service.ChangePassword(ctx, doctor.ID, user.ChangePasswordDTO{
				CurrentPassword: "guess",
				NewPassword:     "NewSecret1",
			})
			Expect(apperrors.HasCode(err, apperrors.ErrCodeWrongPassword)).To(BeTrue())
		})

		DescribeTable("enforces password strength",
			func(candidate string) {
				err := service.ChangePassword(ctx, doctor.ID, user.ChangePasswordDTO{
					CurrentPassword: dbtest.Password,
					NewPassword:     candidate,
				})
				Expect(apperrors.HasCode(err, apperrors.ErrCodeValidationFailed)).To(BeTrue())
			},
			Entry("too short", "Ab1"),
			Entry("no digit", "Abcdefgh"),
			Entry("no upper case", "abcdefg1"),
			Entry("no lower case", "ABCDEFG1"),
		)
	})

	Describe("doctor administration", func() {
		register := func(email, employeeID string) (*user.Profile, error) {
			return service.RegisterDoctor(ctx, user.RegisterDoctorDTO{
				Name:       "Dr. Robbins",
				Email:      email,
				Password:   "Welcome1",
				Department: "Pediatrics",
				EmployeeID: employeeID,
			})
		}

		It("registers an active doctor", func() {
			p, err := register("Robbins@Hospital.test", "EMP-100")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Role).To(Equal("doctor"))
			Expect(p.Email).To(Equal("robbins@hospital.test"))
			Expect(p.IsActive).To(BeTrue())
			Expect(*p.EmployeeID).To(Equal("EMP-100"))
		})

		It("rejects a taken email", func() {
			_, err := register("torres@hospital.test", "EMP-101")
			Expect(apperrors.HasCode(err, apperrors.ErrCodeEmailTaken)).To(BeTrue())
		})

		It("rejects a taken employee id", func() {
			_, err := register("new@hospital.test", "EMP-torres@hospital.test")
			Expect(apperrors.HasCode(err, apperrors.ErrCodeEmployeeIDTaken)).To(BeTrue())
		})

		It("lists doctors by status and never admins", func() {
			Expect(service.ListDoctors(ctx, query.FilterActive)).To(HaveLen(1))

			_, err := service.DeactivateDoctor(ctx, doctor.ID)
			Expect(err).NotTo(HaveOccurred())

			Expect(service.ListDoctors(ctx, query.FilterActive)).To(BeEmpty())
			inactive, err := service.ListDoctors(ctx, query.FilterInactive)
			Expect(err).NotTo(HaveOccurred())
			Expect(inactive).To(HaveLen(1))
			Expect(inactive[0].ID).To(Equal(doctor.ID))
			Expect(service.ListDoctors(ctx, query.FilterAll)).To(HaveLen(1))
		})

		It("conflicts when the state would not change", func() {
			_, err := service.ActivateDoctor(ctx, doctor.ID)
			Expect(apperrors.HasCode(err, apperrors.ErrCodeUserStateChange)).To(BeTrue())

			p, err := service.DeactivateDoctor(ctx, doctor.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.IsActive).To(BeFalse())

			_, err = service.DeactivateDoctor(ctx, doctor.ID)
			Expect(apperrors.HasType(err, apperrors.ErrorTypeConflict)).To(BeTrue())

			p, err = service.ActivateDoctor(ctx, doctor.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.IsActive).To(BeTrue())
		})

		It("does not treat admins as doctors", func() {
			_, err := service.DeactivateDoctor(ctx, admin.ID)
			Expect(apperrors.HasCode(err, apperrors.ErrCodeDoctorNotFound)).To(BeTrue())
		})
	})
})
