package worlds

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aiuniverse/universe/internal/entity/web"
	"github.com/aiuniverse/universe/portal/internal/db/model"
	"github.com/aiuniverse/universe/portal/internal/realtime"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

func receiveChange(sub realtime.Subscription) web.WorldChange {
	var msg realtime.Message
	Eventually(sub.Channel()).Should(Receive(&msg))
	Expect(msg.Event).To(Equal(ChangeEvent))

	var change web.WorldChange
	Expect(json.Unmarshal(msg.Payload, &change)).To(Succeed())
	return change
}

type recordingPublisher struct {
	topics   []string
	messages []realtime.Message
}

func (p *recordingPublisher) Publish(ctx context.Context, topic string, msg realtime.Message) error {
	p.topics = append(p.topics, topic)
	p.messages = append(p.messages, msg)
	return nil
}

var _ = Describe("WorldService", func() {
	var (
		ctrl   *gomock.Controller
		repo   *MockRepository
		broker *realtime.MemoryBroker
		sut    *WorldService
		ctx    context.Context
		now    time.Time
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		repo = NewMockRepository(ctrl)
		broker = realtime.NewMemory()
		sut = New(repo, broker)
		now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		sut.now = func() time.Time { return now }
		ctx = context.Background()
	})

	Describe("List", func() {
		It("should list the owner's worlds when an owner is given", func() {
			repo.EXPECT().ListByOwner(gomock.Any(), "u1").Return([]model.World{{ID: "w1"}}, nil)

			worlds, err := sut.List(ctx, "u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(worlds).To(HaveLen(1))
		})

		It("should list public worlds otherwise", func() {
			repo.EXPECT().ListPublic(gomock.Any()).Return(nil, nil)

			worlds, err := sut.List(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(worlds).To(BeEmpty())
		})
	})

	Describe("Get", func() {
		It("should hide private worlds from other users", func() {
			repo.EXPECT().FindBySlug(gomock.Any(), "secret").Return(&model.World{ID: "w1", UserID: "owner"}, nil).Times(2)

			_, err := sut.GetBySlug(ctx, "someone-else", "secret")
			Expect(err).To(MatchError(ErrNotFound))

			world, err := sut.GetBySlug(ctx, "owner", "secret")
			Expect(err).NotTo(HaveOccurred())
			Expect(world.ID).To(Equal("w1"))
		})
	})

	Describe("Create", func() {
		It("should derive the slug from the title and fill theme defaults", func() {
			var inserted *model.World
			repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, w *model.World) error {
				inserted = w
				return nil
			})

			world, err := sut.Create(ctx, "u1", web.WorldInput{
				Title:    "  My Café World ",
				Theme:    web.WorldTheme{Mode: "dark"},
				Features: web.WorldFeatures{Chat: true},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(world).To(BeIdenticalTo(inserted))
			Expect(world.ID).NotTo(BeEmpty())
			Expect(world.UserID).To(Equal("u1"))
			Expect(world.Title).To(Equal("My Café World"))
			Expect(world.Slug).To(Equal("my-cafe-world"))
			Expect(world.Theme).To(Equal(model.WorldTheme{Color: "blue", Mode: "dark"}))
			Expect(world.Features.Chat).To(BeTrue())
			Expect(world.CreatedAt).To(Equal(now))
		})

		It("should publish the new world on its change feed", func() {
			recorder := &recordingPublisher{}
			sut = New(repo, recorder)
			repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

			world, err := sut.Create(ctx, "u1", web.WorldInput{Title: "Feed"})
			Expect(err).NotTo(HaveOccurred())

			Expect(recorder.topics).To(Equal([]string{realtime.WorldTopic(world.ID)}))
			var change web.WorldChange
			Expect(json.Unmarshal(recorder.messages[0].Payload, &change)).To(Succeed())
			Expect(change.Type).To(Equal(web.ChangeInsert))
			Expect(change.World.Slug).To(Equal("feed"))
		})

		It("should reject an empty title", func() {
			_, err := sut.Create(ctx, "u1", web.WorldInput{Title: "   "})
			Expect(err).To(MatchError(ErrNoTitle))
		})

		It("should reject a slug without letters or digits", func() {
			_, err := sut.Create(ctx, "u1", web.WorldInput{Title: "ok", Slug: "!!!"})
			Expect(err).To(MatchError(ErrInvalidSlug))
		})

		It("should pass duplicate slugs through", func() {
			repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(ErrDupSlug)

			_, err := sut.Create(ctx, "u1", web.WorldInput{Title: "Taken"})
			Expect(err).To(MatchError(ErrDupSlug))
		})
	})

	Describe("Update", func() {
		var stored *model.World

		BeforeEach(func() {
			stored = &model.World{
				ID:       "w1",
				UserID:   "u1",
				Title:    "Old",
				Slug:     "old",
				Theme:    model.WorldTheme{Color: "blue", Mode: "light"},
				Features: model.WorldFeatures{Chat: true, Events: true},
				Public:   true,
			}
		})

		It("should merge only the given fields and publish the change", func() {
			sub, err := broker.Subscribe(ctx, realtime.WorldTopic("w1"))
			Expect(err).NotTo(HaveOccurred())
			defer sub.Close()

			repo.EXPECT().Find(gomock.Any(), "w1").Return(stored, nil)
			repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

			title := "New"
			public := false
			world, err := sut.Update(ctx, "u1", "w1", web.WorldPatch{Title: &title, Public: &public})
			Expect(err).NotTo(HaveOccurred())
			Expect(world.Title).To(Equal("New"))
			Expect(world.Public).To(BeFalse())
			Expect(world.Slug).To(Equal("old"))
			Expect(world.Features).To(Equal(model.WorldFeatures{Chat: true, Events: true}))
			Expect(world.UpdatedAt).To(Equal(now))

			change := receiveChange(sub)
			Expect(change.Type).To(Equal(web.ChangeUpdate))
			Expect(change.World.Title).To(Equal("New"))
		})

		It("should refuse users who do not own the world", func() {
			repo.EXPECT().Find(gomock.Any(), "w1").Return(stored, nil)

			title := "Hijacked"
			_, err := sut.Update(ctx, "intruder", "w1", web.WorldPatch{Title: &title})
			Expect(err).To(MatchError(ErrPermission))
		})
	})

	Describe("Delete", func() {
		It("should delete owned worlds and publish the change", func() {
			sub, err := broker.Subscribe(ctx, realtime.WorldTopic("w1"))
			Expect(err).NotTo(HaveOccurred())
			defer sub.Close()

			repo.EXPECT().Find(gomock.Any(), "w1").Return(&model.World{ID: "w1", UserID: "u1"}, nil)
			repo.EXPECT().Delete(gomock.Any(), "w1").Return(nil)

			Expect(sut.Delete(ctx, "u1", "w1")).To(Succeed())
			Expect(receiveChange(sub).Type).To(Equal(web.ChangeDelete))
		})

		It("should report missing worlds", func() {
			repo.EXPECT().Find(gomock.Any(), "nope").Return(nil, ErrNotFound)

			Expect(sut.Delete(ctx, "u1", "nope")).To(MatchError(ErrNotFound))
		})
	})
})

func Test(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Worlds Suite")
}
