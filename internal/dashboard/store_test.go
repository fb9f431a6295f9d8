package dashboard

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/frahmantamala/accessmodel-admin/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Store", func() {
	var (
		store *Store
		now   time.Time
	)

	BeforeEach(func() {
		now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		store = NewStore(30*time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
		store.now = func() time.Time { return now }
	})

	It("should hand back the session it created", func() {
		s := store.Create()
		got, err := store.Get(s.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(BeIdenticalTo(s))
		Expect(store.Len()).To(Equal(1))
	})

	It("should report unknown sessions as not found", func() {
		_, err := store.Get("missing")
		Expect(errors.Is(err, internal.ErrSessionNotFound)).To(BeTrue())
	})

	It("should expire idle sessions and keep active ones", func() {
		idle := store.Create()
		active := store.Create()

		now = now.Add(20 * time.Minute)
		_, err := store.Get(active.ID)
		Expect(err).NotTo(HaveOccurred())

		now = now.Add(20 * time.Minute)
		Expect(store.Sweep()).To(Equal(1))

		_, err = store.Get(idle.ID)
		Expect(errors.Is(err, internal.ErrSessionNotFound)).To(BeTrue())
		_, err = store.Get(active.ID)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should drop an expired session on lookup", func() {
		s := store.Create()
		now = now.Add(time.Hour)

		_, err := store.Get(s.ID)
		Expect(err).To(HaveOccurred())
		Expect(store.Len()).To(BeZero())
	})
})

var _ = Describe("Tokens", func() {
	It("should round trip the session id", func() {
		tokens := NewTokens("secret", time.Hour)
		signed, err := tokens.Issue("abc")
		Expect(err).NotTo(HaveOccurred())

		id, err := tokens.SessionID(signed)
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal("abc"))
	})

	It("should reject a token signed with another secret", func() {
		signed, err := NewTokens("other", time.Hour).Issue("abc")
		Expect(err).NotTo(HaveOccurred())

		_, err = NewTokens("secret", time.Hour).SessionID(signed)
		Expect(err).To(MatchError(ErrInvalidToken))
	})

	It("should reject an expired token", func() {
		tokens := NewTokens("secret", -time.Minute)
		signed, err := tokens.Issue("abc")
		Expect(err).NotTo(HaveOccurred())

		_, err = tokens.SessionID(signed)
		Expect(err).To(MatchError(ErrTokenExpired))
	})

	It("should reject garbage", func() {
		_, err := NewTokens("secret", time.Hour).SessionID("not-a-token")
		Expect(err).To(MatchError(ErrInvalidToken))
	})
})
