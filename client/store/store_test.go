package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/aiuniverse/universe/client/api"
	"github.com/aiuniverse/universe/internal/entity"
	"github.com/aiuniverse/universe/internal/entity/web"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("AuthStore", func() {
	var (
		ctrl      *gomock.Controller
		client    *MockAuthAPI
		persister *FilePersister
		sut       *AuthStore
		ctx       context.Context
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		client = NewMockAuthAPI(ctrl)
		persister = NewFilePersister(filepath.Join(GinkgoT().TempDir(), "aiu", "state.json"))
		sut = NewAuthStore(client, persister)
		ctx = context.Background()
	})

	It("should start loading until restored", func() {
		Expect(sut.State().Loading).To(BeTrue())

		client.EXPECT().SetToken("")
		Expect(sut.Restore(ctx)).To(Succeed())
		Expect(sut.State().Loading).To(BeFalse())
		Expect(sut.State().User).To(BeNil())
	})

	It("should sign in and persist the session", func() {
		client.EXPECT().SignIn(gomock.Any(), "me@example.com", "secret1").Return(&web.SessionData{
			LoggedIn:    true,
			AccessToken: "tok",
			User:        &web.User{ID: "u1", Email: "me@example.com"},
		}, nil)
		client.EXPECT().SetToken("tok")

		notified := 0
		sut.Subscribe(func() { notified++ })

		Expect(sut.SignIn(ctx, "me@example.com", "secret1")).To(Succeed())

		state := sut.State()
		Expect(state.Loading).To(BeFalse())
		Expect(state.Error).To(BeEmpty())
		Expect(state.User.ID).To(Equal("u1"))
		Expect(notified).To(BeNumerically(">=", 2))

		persisted, err := persister.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(persisted.Session.AccessToken).To(Equal("tok"))
	})

	It("should keep the portal's message on failed sign in", func() {
		client.EXPECT().SignIn(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, &api.APIError{
			Code:    entity.ErrCredential,
			Message: "Invalid email or password",
		})

		err := sut.SignIn(ctx, "me@example.com", "wrong")
		Expect(err).To(MatchError("Invalid email or password"))

		state := sut.State()
		Expect(state.Loading).To(BeFalse())
		Expect(state.User).To(BeNil())
		Expect(state.Error).To(Equal("Invalid email or password"))
	})

	It("should fall back to a generic message for transport failures", func() {
		client.EXPECT().SignIn(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("dial tcp: refused"))

		Expect(sut.SignIn(ctx, "me@example.com", "secret1")).To(MatchError(unexpectedError))
	})

	It("should restore a persisted session", func() {
		Expect(persister.Update(func(state *State) {
			state.Session = &web.SessionData{LoggedIn: true, AccessToken: "old"}
		})).To(Succeed())

		client.EXPECT().SetToken("old").Times(2)
		client.EXPECT().Session(gomock.Any()).Return(&web.SessionData{
			LoggedIn: true,
			User:     &web.User{ID: "u1"},
		}, nil)

		Expect(sut.Restore(ctx)).To(Succeed())
		Expect(sut.State().Token).To(Equal("old"))
		Expect(sut.State().User.ID).To(Equal("u1"))
	})

	Describe("restoring a persisted session", func() {
		BeforeEach(func() {
			Expect(persister.Update(func(state *State) {
				state.Session = &web.SessionData{LoggedIn: true, AccessToken: "old", User: &web.User{ID: "u1"}}
			})).To(Succeed())
		})

		It("should keep the session when the portal cannot be reached", func() {
			client.EXPECT().SetToken("old")
			client.EXPECT().Session(gomock.Any()).Return(nil, errors.New("dial tcp: refused"))

			Expect(sut.Restore(ctx)).To(MatchError("Authentication error"))

			state := sut.State()
			Expect(state.Loading).To(BeFalse())
			Expect(state.Token).To(Equal("old"))
			Expect(state.User.ID).To(Equal("u1"))
			Expect(state.Error).To(Equal("Authentication error"))

			persisted, err := persister.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(persisted.Session.AccessToken).To(Equal("old"))
		})

		It("should forget a session the portal rejects", func() {
			client.EXPECT().SetToken("old")
			client.EXPECT().Session(gomock.Any()).Return(nil, &api.APIError{Code: entity.ErrRequiresAuth, Message: "Authentication required"})
			client.EXPECT().SetToken("")

			Expect(sut.Restore(ctx)).To(MatchError("Authentication required"))
			Expect(sut.State().User).To(BeNil())
			Expect(sut.State().Token).To(BeEmpty())

			persisted, err := persister.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(persisted.Session).To(BeNil())
		})

		It("should forget a session the portal reports as signed out", func() {
			client.EXPECT().SetToken("old")
			client.EXPECT().Session(gomock.Any()).Return(&web.SessionData{LoggedIn: false}, nil)
			client.EXPECT().SetToken("")

			Expect(sut.Restore(ctx)).To(Succeed())
			Expect(sut.State().User).To(BeNil())

			persisted, err := persister.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(persisted.Session).To(BeNil())
		})
	})

	It("should forget the session on sign out", func() {
		client.EXPECT().SignOut(gomock.Any()).Return(nil)
		client.EXPECT().SetToken("")

		Expect(sut.SignOut(ctx)).To(Succeed())
		Expect(sut.State().User).To(BeNil())

		persisted, err := persister.Load()
		Expect(err).NotTo(HaveOccurred())
		Expect(persisted.Session).To(BeNil())
	})

	It("should refuse profile updates without a user", func() {
		Expect(sut.UpdateProfile(ctx, web.ProfileUpdate{})).To(MatchError(ErrNoUser))
	})
})

var _ = Describe("WorldStore", func() {
	var (
		ctrl   *gomock.Controller
		client *MockWorldAPI
		sut    *WorldStore
		ctx    context.Context
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		client = NewMockWorldAPI(ctrl)
		sut = NewWorldStore(client)
		ctx = context.Background()

		client.EXPECT().ListWorlds(gomock.Any(), true).Return([]web.World{
			{ID: "w1", Title: "One", Public: true},
			{ID: "w2", Title: "Two"},
		}, nil)
		Expect(sut.FetchWorlds(ctx, true)).To(Succeed())
	})

	It("should prepend created worlds and make them current", func() {
		client.EXPECT().CreateWorld(gomock.Any(), web.WorldInput{Title: "New"}).Return(&web.World{ID: "w3", Title: "New"}, nil)

		_, err := sut.CreateWorld(ctx, web.WorldInput{Title: "New"})
		Expect(err).NotTo(HaveOccurred())

		state := sut.State()
		Expect(state.Worlds).To(HaveLen(3))
		Expect(state.Worlds[0].ID).To(Equal("w3"))
		Expect(state.CurrentWorld.ID).To(Equal("w3"))
	})

	It("should show the world as the portal stored it", func() {
		sut.SetCurrentWorld(&web.World{ID: "w1", Title: "One", Public: true})
		slug := "My World!"
		client.EXPECT().UpdateWorld(gomock.Any(), "w1", web.WorldPatch{Slug: &slug}).Return(&web.World{
			ID:     "w1",
			Title:  "One",
			Slug:   "my-world",
			Public: true,
		}, nil)

		world, err := sut.UpdateWorld(ctx, "w1", web.WorldPatch{Slug: &slug})
		Expect(err).NotTo(HaveOccurred())
		Expect(world.Slug).To(Equal("my-world"))

		state := sut.State()
		Expect(state.Worlds[0].Slug).To(Equal("my-world"))
		Expect(state.Worlds[0].Public).To(BeTrue())
		Expect(state.Worlds[1].Title).To(Equal("Two"))
		Expect(state.CurrentWorld.Slug).To(Equal("my-world"))
	})

	It("should leave the worlds untouched when the update fails", func() {
		title := "Renamed"
		client.EXPECT().UpdateWorld(gomock.Any(), "w1", gomock.Any()).Return(nil, &api.APIError{Code: entity.ErrPermission, Message: "Permission denied"})

		_, err := sut.UpdateWorld(ctx, "w1", web.WorldPatch{Title: &title})
		Expect(err).To(MatchError("Permission denied"))
		Expect(sut.State().Worlds[0].Title).To(Equal("One"))
	})

	It("should drop deleted worlds and clear the current one", func() {
		sut.SetCurrentWorld(&web.World{ID: "w2"})
		client.EXPECT().DeleteWorld(gomock.Any(), "w2").Return(nil)

		Expect(sut.DeleteWorld(ctx, "w2")).To(Succeed())

		state := sut.State()
		Expect(state.Worlds).To(HaveLen(1))
		Expect(state.CurrentWorld).To(BeNil())
	})

	It("should keep the current world when another one is deleted", func() {
		sut.SetCurrentWorld(&web.World{ID: "w1"})
		client.EXPECT().DeleteWorld(gomock.Any(), "w2").Return(nil)

		Expect(sut.DeleteWorld(ctx, "w2")).To(Succeed())
		Expect(sut.State().CurrentWorld.ID).To(Equal("w1"))
	})

	It("should record duplicate slugs", func() {
		client.EXPECT().CreateWorld(gomock.Any(), gomock.Any()).Return(nil, &api.APIError{
			Code:    entity.ErrDupSlug,
			Message: "This world name is already taken. Please choose another.",
		})

		_, err := sut.CreateWorld(ctx, web.WorldInput{Title: "One"})
		Expect(err).To(HaveOccurred())
		Expect(sut.State().Error).To(Equal("This world name is already taken. Please choose another."))
		Expect(sut.State().Worlds).To(HaveLen(2))
	})
})

var _ = Describe("EventStore", func() {
	var (
		ctrl   *gomock.Controller
		client *MockEventAPI
		sut    *EventStore
		ctx    context.Context
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		client = NewMockEventAPI(ctrl)
		sut = NewEventStore(client)
		ctx = context.Background()
	})

	It("should report a failed load", func() {
		client.EXPECT().ListEvents(gomock.Any(), "").Return(nil, errors.New("boom"))

		Expect(sut.FetchEvents(ctx, "")).To(HaveOccurred())
		Expect(sut.State().Error).To(Equal("Failed to load events. Please try again."))
		Expect(sut.State().Loading).To(BeFalse())
	})

	DescribeTable("should explain failed creates",
		func(err error, expected string) {
			client.EXPECT().CreateEvent(gomock.Any(), gomock.Any()).Return(nil, err)

			_, createErr := sut.CreateEvent(ctx, web.EventInput{WorldID: "w1", Title: "x"})
			Expect(createErr).To(MatchError(expected))
			Expect(sut.State().Error).To(Equal(expected))
		},
		Entry("not the owner", &api.APIError{Code: entity.ErrPermission}, "You do not have permission to create events in this world."),
		Entry("world deleted", &api.APIError{Code: entity.ErrWorldGone}, "The selected world is no longer available."),
		Entry("other portal error", &api.APIError{Code: entity.ErrInternal}, "Failed to create event. Please try again."),
		Entry("network", errors.New("connection reset"), "Failed to create event. Please check your connection and try again."),
	)

	It("should prepend, merge and remove events", func() {
		client.EXPECT().ListEvents(gomock.Any(), "w1").Return([]web.Event{{ID: "e1", Title: "First", TicketPrice: 3}}, nil)
		client.EXPECT().CreateEvent(gomock.Any(), gomock.Any()).Return(&web.Event{ID: "e2", Title: "Second"}, nil)
		client.EXPECT().UpdateEvent(gomock.Any(), "e1", gomock.Any()).Return(&web.Event{}, nil)
		client.EXPECT().DeleteEvent(gomock.Any(), "e2").Return(nil)

		Expect(sut.FetchEvents(ctx, "w1")).To(Succeed())
		_, err := sut.CreateEvent(ctx, web.EventInput{WorldID: "w1", Title: "Second"})
		Expect(err).NotTo(HaveOccurred())
		Expect(sut.State().Events[0].ID).To(Equal("e2"))

		title := "Renamed"
		Expect(sut.UpdateEvent(ctx, "e1", web.EventPatch{Title: &title})).To(Succeed())
		Expect(sut.State().Events[1].Title).To(Equal("Renamed"))
		Expect(sut.State().Events[1].TicketPrice).To(Equal(3.0))

		Expect(sut.DeleteEvent(ctx, "e2")).To(Succeed())
		Expect(sut.State().Events).To(HaveLen(1))
	})

	It("should clear the error", func() {
		client.EXPECT().DeleteEvent(gomock.Any(), "e1").Return(errors.New("boom"))

		Expect(sut.DeleteEvent(ctx, "e1")).To(MatchError("Failed to delete event. Please try again."))
		sut.ClearError()
		Expect(sut.State().Error).To(BeEmpty())
	})
})

func Test(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Store Suite")
}
