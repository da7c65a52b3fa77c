package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/deppfellow/meetapp/internal/errs"
	"github.com/labstack/echo/v4"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"
)

type fakeTokens map[string]int64

func (f fakeTokens) Parse(raw string) (int64, error) {
	if userID, ok := f[raw]; ok {
		return userID, nil
	}
	return 0, errors.New("unknown token")
}

var _ = Describe("bearerToken", func() {
	DescribeTable("extracts the token",
		func(header, want string, ok bool) {
			got, gotOK := bearerToken(header)
			Expect(gotOK).To(Equal(ok))
			Expect(got).To(Equal(want))
		},
		Entry("canonical", "Bearer abc", "abc", true),
		Entry("lower-case scheme", "bearer abc", "abc", true),
		Entry("padding", "  Bearer   abc  ", "abc", true),
		Entry("empty", "", "", false),
		Entry("scheme only", "Bearer", "", false),
		Entry("basic auth", "Basic dXNlcjpwYXNz", "", false),
	)
})

var _ = Describe("RequireAuth", func() {
	var (
		e    *echo.Echo
		auth *AuthMiddleware
		buf  *bytes.Buffer
	)

	BeforeEach(func() {
		e = echo.New()
		auth = NewAuthMiddleware(fakeTokens{"good": 42})
		buf = &bytes.Buffer{}
	})

	run := func(header string, next echo.HandlerFunc) error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		c := e.NewContext(req, httptest.NewRecorder())

		logger := zerolog.New(buf)
		setLogger(c, &logger)

		return auth.RequireAuth(next)(c)
	}

	It("stores the actor and tags the request logger", func() {
		err := run("Bearer good", func(c echo.Context) error {
			actorID, err := GetActorID(c)
			Expect(err).NotTo(HaveOccurred())
			Expect(actorID).To(Equal(int64(42)))

			zerolog.Ctx(c.Request().Context()).Info().Msg("downstream")
			return nil
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring(`"user_id":42`))
	})

	It("rejects a missing token", func() {
		err := run("", func(echo.Context) error {
			Fail("next must not run")
			return nil
		})

		var httpErr *errs.HTTPError
		Expect(errors.As(err, &httpErr)).To(BeTrue())
		Expect(httpErr.Status).To(Equal(http.StatusUnauthorized))
		Expect(httpErr.Message).To(Equal(MsgTokenMissing))
	})

	It("rejects an unknown token", func() {
		err := run("Bearer forged", func(echo.Context) error { return nil })

		var httpErr *errs.HTTPError
		Expect(errors.As(err, &httpErr)).To(BeTrue())
		Expect(httpErr.Message).To(Equal(MsgTokenInvalid))
	})
})

var _ = Describe("GetActorID", func() {
	It("fails when no user was authenticated", func() {
		c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

		_, err := GetActorID(c)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("statusOf", func() {
	It("keeps the written status when there is no error", func() {
		Expect(statusOf(http.StatusOK, nil)).To(Equal(http.StatusOK))
	})

	It("reads the status of wrapped HTTP errors", func() {
		err := fmt.Errorf("binding: %w", errs.NewRejection(http.StatusConflict, "CONFLICT", "taken"))
		Expect(statusOf(http.StatusOK, err)).To(Equal(http.StatusConflict))
	})

	It("reads echo errors", func() {
		Expect(statusOf(http.StatusOK, echo.ErrMethodNotAllowed)).To(Equal(http.StatusMethodNotAllowed))
	})

	It("treats anything else as a 500", func() {
		Expect(statusOf(http.StatusOK, errors.New("boom"))).To(Equal(http.StatusInternalServerError))
	})
})
