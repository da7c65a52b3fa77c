package gate_test

import (
	"context"
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/deppfellow/meetapp/internal/errs"
	"github.com/deppfellow/meetapp/internal/gate"
	"github.com/deppfellow/meetapp/internal/validation"
)

type notePayload struct {
	ID    int64  `json:"-"`
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"omitempty,min=3"`
}

func (p *notePayload) Validate() error {
	return validation.Struct(p)
}

type note struct {
	ID      int64
	OwnerID int64
}

func asHTTPError(err error) *errs.HTTPError {
	var httpErr *errs.HTTPError
	ExpectWithOffset(1, errors.As(err, &httpErr)).To(BeTrue())
	return httpErr
}

var _ = Describe("Gate", func() {
	var (
		ctx   context.Context
		calls []string
		notes map[int64]*note
		g     *gate.Gate[*notePayload, *note]
	)

	track := func(name string, pass bool) gate.Check[*notePayload, *note] {
		return func(_ context.Context, _ *gate.Subject[*notePayload, *note]) (bool, error) {
			calls = append(calls, name)
			return pass, nil
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		calls = nil
		notes = map[int64]*note{7: {ID: 7, OwnerID: 1}}

		g = gate.New[*notePayload, *note]("note.update", gate.Statuses(gate.ModeLegacy)).
			Load(func(_ context.Context, s *gate.Subject[*notePayload, *note]) (*note, bool, error) {
				calls = append(calls, "load")
				n, ok := notes[s.Payload.ID]
				return n, ok, nil
			}).
			Rule("note-exists", gate.KindNotFound, "Note not found",
				func(_ context.Context, s *gate.Subject[*notePayload, *note]) (bool, error) {
					calls = append(calls, "note-exists")
					return s.Found, nil
				}).
			Rule("owner-only", gate.KindForbidden, "Not your note",
				func(_ context.Context, s *gate.Subject[*notePayload, *note]) (bool, error) {
					calls = append(calls, "owner-only")
					return s.Current.OwnerID == s.ActorID, nil
				})
	})

	It("returns the subject with the loaded record when every step passes", func() {
		subject, err := g.Evaluate(ctx, 1, &notePayload{ID: 7, Title: "hello"})

		Expect(err).NotTo(HaveOccurred())
		Expect(subject.Found).To(BeTrue())
		Expect(subject.Current.ID).To(Equal(int64(7)))
		Expect(subject.ActorID).To(Equal(int64(1)))
		Expect(subject.Payload.Title).To(Equal("hello"))
		Expect(calls).To(Equal([]string{"load", "note-exists", "owner-only"}))
	})

	It("reports rule names in declaration order", func() {
		Expect(g.Name()).To(Equal("note.update"))
		Expect(g.RuleNames()).To(Equal([]string{"note-exists", "owner-only"}))
	})

	Context("when the payload fails the schema", func() {
		It("rejects before loading or running any rule", func() {
			_, err := g.Evaluate(ctx, 1, &notePayload{ID: 7, Body: "x"})

			httpErr := asHTTPError(err)
			Expect(httpErr.Status).To(Equal(http.StatusBadRequest))
			Expect(httpErr.Code).To(Equal(string(gate.KindValidation)))
			Expect(httpErr.Message).To(Equal("Validation fails"))
			Expect(httpErr.Errors).To(BeEmpty())
			Expect(calls).To(BeEmpty())
		})

		It("uses the overridden validation status", func() {
			strict := gate.New[*notePayload, *note]("note.strict",
				gate.Statuses(gate.ModeLegacy).With(gate.KindValidation, http.StatusUnauthorized))

			_, err := strict.Evaluate(ctx, 1, &notePayload{})

			Expect(asHTTPError(err).Status).To(Equal(http.StatusUnauthorized))
		})
	})

	Context("when a rule fails", func() {
		It("short-circuits on the first failing rule", func() {
			_, err := g.Evaluate(ctx, 1, &notePayload{ID: 99, Title: "missing"})

			httpErr := asHTTPError(err)
			Expect(httpErr.Code).To(Equal(string(gate.KindNotFound)))
			Expect(httpErr.Message).To(Equal("Note not found"))
			Expect(calls).To(Equal([]string{"load", "note-exists"}))
		})

		It("checks ownership only after existence", func() {
			_, err := g.Evaluate(ctx, 2, &notePayload{ID: 7, Title: "not mine"})

			httpErr := asHTTPError(err)
			Expect(httpErr.Code).To(Equal(string(gate.KindForbidden)))
			Expect(httpErr.Message).To(Equal("Not your note"))
			Expect(calls).To(Equal([]string{"load", "note-exists", "owner-only"}))
		})

		It("maps kinds through the legacy table", func() {
			_, err := g.Evaluate(ctx, 2, &notePayload{ID: 7, Title: "not mine"})
			Expect(asHTTPError(err).Status).To(Equal(http.StatusUnauthorized))
		})

		It("maps kinds through the conventional table", func() {
			conventional := gate.New[*notePayload, *note]("note.delete", gate.Statuses(gate.ModeConventional)).
				Rule("always-forbidden", gate.KindForbidden, "nope", track("always-forbidden", false))

			_, err := conventional.Evaluate(ctx, 1, &notePayload{Title: "x"})
			Expect(asHTTPError(err).Status).To(Equal(http.StatusForbidden))
		})
	})

	Context("when the loader or a rule errors", func() {
		It("propagates the loader error without running rules", func() {
			boom := errors.New("connection refused")
			broken := gate.New[*notePayload, *note]("note.broken", gate.Statuses(gate.ModeLegacy)).
				Load(func(context.Context, *gate.Subject[*notePayload, *note]) (*note, bool, error) {
					return nil, false, boom
				}).
				Rule("never", gate.KindNotFound, "never", track("never", true))

			_, err := broken.Evaluate(ctx, 1, &notePayload{Title: "x"})

			Expect(err).To(MatchError(boom))
			var httpErr *errs.HTTPError
			Expect(errors.As(err, &httpErr)).To(BeFalse())
			Expect(calls).To(BeEmpty())
		})

		It("propagates the rule error and stops", func() {
			boom := errors.New("timeout")
			broken := gate.New[*notePayload, *note]("note.broken", gate.Statuses(gate.ModeLegacy)).
				Rule("explodes", gate.KindConflict, "never shown",
					func(context.Context, *gate.Subject[*notePayload, *note]) (bool, error) {
						return false, boom
					}).
				Rule("after", gate.KindConflict, "never", track("after", true))

			_, err := broken.Evaluate(ctx, 1, &notePayload{Title: "x"})

			Expect(err).To(MatchError(boom))
			Expect(err.Error()).To(ContainSubstring("rule explodes"))
			Expect(calls).To(BeEmpty())
		})
	})
})

var _ = Describe("StatusTable", func() {
	It("falls back to 400 for unknown kinds", func() {
		Expect(gate.StatusTable{}.Status(gate.KindConflict)).To(Equal(http.StatusBadRequest))
	})

	It("does not mutate the receiver in With", func() {
		legacy := gate.Statuses(gate.ModeLegacy)
		_ = legacy.With(gate.KindValidation, http.StatusUnauthorized)

		Expect(legacy.Status(gate.KindValidation)).To(Equal(http.StatusBadRequest))
	})

	It("treats unknown modes as legacy", func() {
		Expect(gate.Statuses("bogus")).To(Equal(gate.Statuses(gate.ModeLegacy)))
	})
})
