package kvs

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

var _ = Describe("KeyValueStore", func() {
	var (
		store *MemoryStore
		now   time.Time
		sut   KeyValueStore
		ctx   context.Context
	)

	BeforeEach(func() {
		now = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		store = NewMemory()
		store.now = func() time.Time { return now }
		sut = New(store)
		ctx = context.Background()
	})

	It("should round-trip JSON values", func() {
		Expect(sut.Set(ctx, "k", sample{Name: "a", Count: 2}, 0)).To(Succeed())

		var got sample
		Expect(sut.Get(ctx, "k", &got)).To(Succeed())
		Expect(got).To(Equal(sample{Name: "a", Count: 2}))
	})

	It("should report missing keys", func() {
		var got sample
		Expect(sut.Get(ctx, "missing", &got)).To(MatchError(ErrNotFound))
	})

	It("should expire values after their ttl", func() {
		Expect(sut.Set(ctx, "k", sample{Name: "a"}, time.Minute)).To(Succeed())

		now = now.Add(59 * time.Second)
		var got sample
		Expect(sut.Get(ctx, "k", &got)).To(Succeed())

		now = now.Add(time.Second)
		Expect(sut.Get(ctx, "k", &got)).To(MatchError(ErrNotFound))
	})

	It("should delete keys", func() {
		Expect(sut.Set(ctx, "a", 1, 0)).To(Succeed())
		Expect(sut.Set(ctx, "b", 2, 0)).To(Succeed())
		Expect(sut.Del(ctx, "a", "b")).To(Succeed())

		var got int
		Expect(sut.Get(ctx, "a", &got)).To(MatchError(ErrNotFound))
		Expect(sut.Get(ctx, "b", &got)).To(MatchError(ErrNotFound))
	})
})

func Test(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "KVS Suite")
}
