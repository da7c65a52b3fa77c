package user_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/deppfellow/meetapp/internal/errs"
	"github.com/deppfellow/meetapp/internal/model"
	"github.com/deppfellow/meetapp/internal/model/user"
	"github.com/deppfellow/meetapp/internal/validation"
)

func str(s string) *string { return &s }

func fields(v validation.Validatable) []string {
	var out []string
	for _, fe := range validation.Validate(v) {
		out = append(out, fe.Field)
	}
	return out
}

var _ = Describe("CreateUserPayload", func() {
	It("accepts a complete payload", func() {
		p := &user.CreateUserPayload{Name: "Diego", Email: "diego@example.com", Password: "secret1"}
		Expect(p.Validate()).To(Succeed())
	})

	DescribeTable("rejects",
		func(p *user.CreateUserPayload, field string) {
			Expect(fields(p)).To(ContainElement(field))
		},
		Entry("a missing name", &user.CreateUserPayload{Email: "diego@example.com", Password: "secret1"}, "name"),
		Entry("a malformed email", &user.CreateUserPayload{Name: "Diego", Email: "diego", Password: "secret1"}, "email"),
		Entry("a short password", &user.CreateUserPayload{Name: "Diego", Email: "diego@example.com", Password: "12345"}, "password"),
	)
})

var _ = Describe("UpdateUserPayload", func() {
	It("accepts an empty update", func() {
		Expect((&user.UpdateUserPayload{}).Validate()).To(Succeed())
	})

	It("accepts a name-only update", func() {
		Expect((&user.UpdateUserPayload{Name: str("Diego F.")}).Validate()).To(Succeed())
	})

	It("requires password when oldPassword is present", func() {
		p := &user.UpdateUserPayload{OldPassword: str("secret1")}
		Expect(fields(p)).To(ContainElement("password"))
	})

	It("requires confirmPassword when password is present", func() {
		p := &user.UpdateUserPayload{OldPassword: str("secret1"), Password: str("secret2")}
		Expect(fields(p)).To(ConsistOf("confirmPassword"))
	})

	It("requires confirmPassword to equal password", func() {
		p := &user.UpdateUserPayload{
			OldPassword:     str("secret1"),
			Password:        str("secret2"),
			ConfirmPassword: str("secret3"),
		}
		Expect(validation.Validate(p)).To(ConsistOf(errs.FieldError{Field: "confirmPassword", Error: "must match password"}))
	})

	It("accepts a complete password change", func() {
		p := &user.UpdateUserPayload{
			OldPassword:     str("secret1"),
			Password:        str("secret2"),
			ConfirmPassword: str("secret2"),
		}
		Expect(p.Validate()).To(Succeed())
		Expect(p.ChangesPassword()).To(BeTrue())
	})

	It("reports tag and dependency failures together", func() {
		p := &user.UpdateUserPayload{Email: str("not-an-email"), Password: str("secret2")}
		Expect(fields(p)).To(ConsistOf("email", "confirmPassword"))
	})

	It("rejects a short oldPassword", func() {
		p := &user.UpdateUserPayload{OldPassword: str("123"), Password: str("secret2"), ConfirmPassword: str("secret2")}
		Expect(fields(p)).To(ConsistOf("oldPassword"))
	})

	It("binds the camelCase wire names", func() {
		var p user.UpdateUserPayload
		Expect(json.Unmarshal([]byte(`{"oldPassword":"a","confirmPassword":"b"}`), &p)).To(Succeed())
		Expect(model.Present(p.OldPassword)).To(BeTrue())
		Expect(*p.ConfirmPassword).To(Equal("b"))
	})
})

var _ = Describe("User", func() {
	It("never serializes the password hash", func() {
		u := user.User{Name: "Diego", Email: "diego@example.com", PasswordHash: "$2a$10$hash"}
		u.ID = 42

		out, err := json.Marshal(u)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(out)).NotTo(ContainSubstring("hash"))
		Expect(string(out)).To(ContainSubstring(`"id":"42"`))
	})
})
