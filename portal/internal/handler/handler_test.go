package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aiuniverse/universe/internal/entity"
	"github.com/aiuniverse/universe/internal/entity/web"
	"github.com/aiuniverse/universe/portal/internal/analytics"
	"github.com/aiuniverse/universe/portal/internal/auth"
	"github.com/aiuniverse/universe/portal/internal/chat"
	"github.com/aiuniverse/universe/portal/internal/config"
	"github.com/aiuniverse/universe/portal/internal/db/model"
	"github.com/aiuniverse/universe/portal/internal/events"
	"github.com/aiuniverse/universe/portal/internal/kvs"
	"github.com/aiuniverse/universe/portal/internal/realtime"
	"github.com/aiuniverse/universe/portal/internal/subscriptions"
	"github.com/aiuniverse/universe/portal/internal/translations"
	"github.com/aiuniverse/universe/portal/internal/worlds"
	"github.com/gorilla/sessions"
	"github.com/gorilla/websocket"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

const (
	allowedOrigin = "https://universe.example.com"
	worldID       = "6f1d7a52-3c4e-4b8a-9d21-0e5f8a7c2b10"
	eventID       = "0b9e2c4d-7a18-4f36-8e5b-2d4c6a8f1e03"
)

type envelope struct {
	Success   bool             `json:"success"`
	ErrorCode entity.ErrorCode `json:"errorCode"`
	Message   string           `json:"message"`
	Data      json.RawMessage  `json:"data"`
}

func decodeEnvelope(body io.Reader) envelope {
	var result envelope
	ExpectWithOffset(1, json.NewDecoder(body).Decode(&result)).To(Succeed())
	return result
}

func jsonRequest(method, target string, body any) *http.Request {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
		reader = strings.NewReader(string(data))
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

var _ = Describe("Handler", func() {
	var (
		ctrl      *gomock.Controller
		users     *auth.MockUserRepository
		worldRepo *worlds.MockRepository
		eventRepo *events.MockRepository
		broker    *realtime.MemoryBroker
		authSvc   *auth.AuthService
		cfg       *config.Config
		services  Services
		h         *Handler
		ctx       context.Context
	)

	newHandler := func(checks ...HealthCheck) *Handler {
		handler, err := NewHandler(cfg, ":0", services, sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef")), checks...)
		Expect(err).NotTo(HaveOccurred())
		return handler
	}

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	bearer := func(req *http.Request, userID string) *http.Request {
		token, err := authSvc.CreateToken(ctx, userID, []auth.Scope{auth.ScopeUser})
		Expect(err).NotTo(HaveOccurred())
		req.Header.Set("Authorization", "Bearer "+token.Token)
		return req
	}

	BeforeEach(func() {
		ctx = context.Background()
		ctrl = gomock.NewController(GinkgoT())
		users = auth.NewMockUserRepository(ctrl)
		worldRepo = worlds.NewMockRepository(ctrl)
		eventRepo = events.NewMockRepository(ctrl)
		broker = realtime.NewMemory()
		authSvc = auth.New(kvs.New(kvs.NewMemory()), users)
		cfg = &config.Config{Origin: allowedOrigin}

		chatSvc, err := chat.New(broker, chat.NewCannedResponder(), chat.Options{MinDelay: time.Millisecond, DelaySpread: time.Millisecond})
		Expect(err).NotTo(HaveOccurred())

		services = Services{
			Auth:   authSvc,
			Worlds: worlds.New(worldRepo, broker),
			Events: events.New(eventRepo, worldRepo),
			Chat:   chatSvc,
			Broker: broker,
		}
		h = newHandler()
	})

	Describe("health", func() {
		It("should report ok when every dependency answers", func() {
			h = newHandler(HealthCheck{Name: "Redis", Check: func(context.Context) error { return nil }})

			rec := serve(httptest.NewRequest(http.MethodGet, "/health", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(Equal("ok"))
		})

		It("should fail when a dependency is down", func() {
			h = newHandler(HealthCheck{Name: "PostgreSQL", Check: func(context.Context) error { return errors.New("refused") }})

			rec := serve(httptest.NewRequest(http.MethodGet, "/health", nil))
			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("auth", func() {
		var account *model.Account

		BeforeEach(func() {
			hashed, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
			Expect(err).NotTo(HaveOccurred())
			account = &model.Account{ID: "u1", Email: "ada@example.com", Password: string(hashed)}
		})

		It("should keep the signed-in user in the cookie session", func() {
			profile := &model.User{ID: "u1", Email: "ada@example.com", Name: "Ada", Plan: entity.PlanFree}
			users.EXPECT().FindAccountByEmail(gomock.Any(), "ada@example.com").Return(account, nil)
			users.EXPECT().FindProfile(gomock.Any(), "u1").Return(profile, nil).Times(2)

			rec := serve(jsonRequest(http.MethodPost, "/api/v1/auth/signin", web.PasswordCredential{Email: "Ada@Example.com", Password: "secret1"}))
			resp := decodeEnvelope(rec.Body)
			Expect(resp.Success).To(BeTrue())
			cookies := rec.Result().Cookies()
			Expect(cookies).NotTo(BeEmpty())

			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
			for _, cookie := range cookies {
				req.AddCookie(cookie)
			}
			resp = decodeEnvelope(serve(req).Body)
			Expect(resp.Success).To(BeTrue())

			var data web.SessionData
			Expect(json.Unmarshal(resp.Data, &data)).To(Succeed())
			Expect(data.LoggedIn).To(BeTrue())
			Expect(data.User.Name).To(Equal("Ada"))
		})

		It("should translate wrong credentials", func() {
			users.EXPECT().FindAccountByEmail(gomock.Any(), "ada@example.com").Return(account, nil)

			rec := serve(jsonRequest(http.MethodPost, "/api/v1/auth/signin", web.PasswordCredential{Email: "ada@example.com", Password: "wrong"}))
			resp := decodeEnvelope(rec.Body)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(resp.Success).To(BeFalse())
			Expect(resp.ErrorCode).To(Equal(entity.ErrCredential))
			Expect(resp.Message).To(Equal("Invalid email or password"))
		})

		It("should report anonymous sessions as logged out", func() {
			resp := decodeEnvelope(serve(httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)).Body)
			Expect(resp.Success).To(BeTrue())
			Expect(string(resp.Data)).To(ContainSubstring(`"loggedIn":false`))
		})

		It("should reject requests from other origins", func() {
			req := jsonRequest(http.MethodPost, "/api/v1/auth/signin", web.PasswordCredential{})
			req.Header.Set("Origin", "https://evil.example.com")

			resp := decodeEnvelope(serve(req).Body)
			Expect(resp.ErrorCode).To(Equal(entity.ErrBadRequest))
		})
	})

	Describe("worlds", func() {
		It("should require sign-in to create a world", func() {
			resp := decodeEnvelope(serve(jsonRequest(http.MethodPost, "/api/v1/worlds", web.WorldInput{Title: "x"})).Body)
			Expect(resp.ErrorCode).To(Equal(entity.ErrRequiresAuth))
			Expect(resp.Message).To(Equal("Please sign in to continue"))
		})

		It("should create worlds for the signed-in user", func() {
			worldRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

			req := bearer(jsonRequest(http.MethodPost, "/api/v1/worlds", web.WorldInput{Title: "Deep Space"}), "u1")
			req.Header.Set("Origin", allowedOrigin)
			resp := decodeEnvelope(serve(req).Body)
			Expect(resp.Success).To(BeTrue())

			var world web.World
			Expect(json.Unmarshal(resp.Data, &world)).To(Succeed())
			Expect(world.UserID).To(Equal("u1"))
			Expect(world.Slug).To(Equal("deep-space"))
		})

		It("should explain duplicate slugs", func() {
			worldRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(worlds.ErrDupSlug)

			resp := decodeEnvelope(serve(bearer(jsonRequest(http.MethodPost, "/api/v1/worlds", web.WorldInput{Title: "Taken"}), "u1")).Body)
			Expect(resp.ErrorCode).To(Equal(entity.ErrDupSlug))
			Expect(resp.Message).To(Equal("This world name is already taken. Please choose another."))
		})

		It("should hide private worlds from anonymous visitors", func() {
			worldRepo.EXPECT().FindBySlug(gomock.Any(), "secret").Return(&model.World{ID: worldID, UserID: "u1"}, nil)

			resp := decodeEnvelope(serve(httptest.NewRequest(http.MethodGet, "/api/v1/worlds/slug/secret", nil)).Body)
			Expect(resp.ErrorCode).To(Equal(entity.ErrNotFound))
		})

		It("should stream changes until the world is deleted", func() {
			worldRepo.EXPECT().Find(gomock.Any(), worldID).Return(&model.World{ID: worldID, UserID: "u1", Public: true}, nil)
			server := httptest.NewServer(h)
			defer server.Close()

			resp, err := http.Get(server.URL + "/api/v1/worlds/" + worldID + "/changes")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.Header.Get("Content-Type")).To(Equal("text/event-stream"))

			Eventually(func() int { return broker.Subscribers(realtime.WorldTopic(worldID)) }).Should(Equal(1))
			msg, err := realtime.NewMessage(ctx, worlds.ChangeEvent, "", web.WorldChange{Type: web.ChangeDelete, World: web.World{ID: worldID}})
			Expect(err).NotTo(HaveOccurred())
			Expect(broker.Publish(ctx, realtime.WorldTopic(worldID), msg)).To(Succeed())

			body, err := io.ReadAll(bufio.NewReader(resp.Body))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("event: world\ndata: "))
			Expect(string(body)).To(ContainSubstring(`"type":"delete"`))
		})
	})

	Describe("private worlds", func() {
		var private *model.World

		request := func(method, target, userID string) envelope {
			req := jsonRequest(method, target, map[string]any{"eventName": "page_view"})
			if userID != "" {
				req = bearer(req, userID)
			}
			return decodeEnvelope(serve(req).Body)
		}

		BeforeEach(func() {
			private = &model.World{
				ID:       worldID,
				UserID:   "owner",
				Title:    "Secret Project",
				Features: model.WorldFeatures{Chat: true, Events: true},
			}
			worldRepo.EXPECT().Find(gomock.Any(), worldID).Return(private, nil).AnyTimes()

			services.Analytics = analytics.New(nil)
			services.Translations = translations.New(nil, services.Worlds)
			services.Subscriptions = subscriptions.New(nil, services.Worlds)
			h = newHandler()
		})

		DescribeTable("should not leak world-scoped data to other users",
			func(method, suffix, userID string, expected entity.ErrorCode) {
				resp := request(method, "/api/v1/worlds/"+worldID+suffix, userID)
				Expect(resp.Success).To(BeFalse())
				Expect(resp.ErrorCode).To(Equal(expected))
				Expect(resp.Message).NotTo(ContainSubstring("Secret Project"))
			},
			Entry("world, anonymous", http.MethodGet, "", "", entity.ErrNotFound),
			Entry("world, stranger", http.MethodGet, "", "stranger", entity.ErrNotFound),
			Entry("change feed, anonymous", http.MethodGet, "/changes", "", entity.ErrNotFound),
			Entry("chat, anonymous", http.MethodGet, "/chat", "", entity.ErrNotFound),
			Entry("chat, stranger", http.MethodGet, "/chat", "stranger", entity.ErrNotFound),
			Entry("translations, anonymous", http.MethodGet, "/translations", "", entity.ErrNotFound),
			Entry("translations, stranger", http.MethodGet, "/translations", "stranger", entity.ErrNotFound),
			Entry("translation upsert, stranger", http.MethodPut, "/translations/fr", "stranger", entity.ErrPermission),
			Entry("analytics tracking, anonymous", http.MethodPost, "/analytics", "", entity.ErrNotFound),
			Entry("analytics tracking, stranger", http.MethodPost, "/analytics", "stranger", entity.ErrNotFound),
			Entry("analytics query, anonymous", http.MethodGet, "/analytics", "", entity.ErrRequiresAuth),
			Entry("analytics query, stranger", http.MethodGet, "/analytics", "stranger", entity.ErrPermission),
			Entry("subscription, stranger", http.MethodPost, "/subscriptions", "stranger", entity.ErrNotFound),
		)

		It("should hide the events of a private world from anonymous visitors and strangers", func() {
			for _, userID := range []string{"", "stranger"} {
				req := httptest.NewRequest(http.MethodGet, "/api/v1/events?worldId="+worldID, nil)
				if userID != "" {
					req = bearer(req, userID)
				}
				rec := serve(req)
				Expect(rec.Body.String()).NotTo(ContainSubstring("Secret Project"))

				var resp envelope
				Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
				Expect(resp.ErrorCode).To(Equal(entity.ErrNotFound))
			}
		})

		It("should list a private world's events for its owner", func() {
			eventRepo.EXPECT().List(gomock.Any(), "owner", worldID).Return([]model.WorldEvent{
				{ID: eventID, WorldID: worldID, EventType: entity.EventMeetup, Title: "Kickoff", World: private},
			}, nil)

			req := bearer(httptest.NewRequest(http.MethodGet, "/api/v1/events?worldId="+worldID, nil), "owner")
			resp := decodeEnvelope(serve(req).Body)
			Expect(resp.Success).To(BeTrue())

			var result []web.Event
			Expect(json.Unmarshal(resp.Data, &result)).To(Succeed())
			Expect(result).To(HaveLen(1))
			Expect(result[0].World).To(Equal(&web.EventWorld{Title: "Secret Project", UserID: "owner"}))
		})

		It("should list every world's events as seen by the caller", func() {
			eventRepo.EXPECT().List(gomock.Any(), "", "").Return(nil, nil)
			eventRepo.EXPECT().List(gomock.Any(), "stranger", "").Return(nil, nil)

			resp := decodeEnvelope(serve(httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)).Body)
			Expect(resp.Success).To(BeTrue())

			resp = decodeEnvelope(serve(bearer(httptest.NewRequest(http.MethodGet, "/api/v1/events", nil), "stranger")).Body)
			Expect(resp.Success).To(BeTrue())
		})
	})

	Describe("malformed ids", func() {
		BeforeEach(func() {
			services.Subscriptions = subscriptions.New(nil, services.Worlds)
			h = newHandler()
		})

		DescribeTable("should answer not found without querying storage",
			func(method, target string) {
				req := bearer(jsonRequest(method, target, map[string]any{}), "u1")
				resp := decodeEnvelope(serve(req).Body)
				Expect(resp.Success).To(BeFalse())
				Expect(resp.ErrorCode).To(Equal(entity.ErrNotFound))
			},
			Entry("world", http.MethodGet, "/api/v1/worlds/not-a-uuid"),
			Entry("world update", http.MethodPatch, "/api/v1/worlds/not-a-uuid"),
			Entry("world chat", http.MethodGet, "/api/v1/worlds/not-a-uuid/chat"),
			Entry("event delete", http.MethodDelete, "/api/v1/events/not-a-uuid"),
			Entry("subscription cancel", http.MethodDelete, "/api/v1/subscriptions/not-a-uuid"),
		)
	})

	It("should answer unconfigured features with ErrFeatureOff", func() {
		resp := decodeEnvelope(serve(bearer(httptest.NewRequest(http.MethodGet, "/api/v1/files", nil), "u1")).Body)
		Expect(resp.ErrorCode).To(Equal(entity.ErrFeatureOff))
	})

	Describe("static files", func() {
		BeforeEach(func() {
			dir := GinkgoT().TempDir()
			Expect(os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>universe</html>"), 0o644)).To(Succeed())
			cfg.ServeStatic = true
			cfg.StaticDir = dir
			h = newHandler()
		})

		It("should answer client-side routes with index.html", func() {
			rec := serve(httptest.NewRequest(http.MethodGet, "/worlds/galaxy", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(Equal("<html>universe</html>"))
		})

		It("should keep unknown api paths as not found", func() {
			rec := serve(httptest.NewRequest(http.MethodGet, "/api/v1/nothing-here", nil))
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("chat", func() {
		var server *httptest.Server

		dial := func() *websocket.Conn {
			url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/worlds/" + worldID + "/chat"
			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			Expect(err).NotTo(HaveOccurred())
			return conn
		}

		readFrame := func(conn *websocket.Conn) web.ChatEnvelope {
			var frame web.ChatEnvelope
			conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			ExpectWithOffset(1, conn.ReadJSON(&frame)).To(Succeed())
			return frame
		}

		BeforeEach(func() {
			worldRepo.EXPECT().Find(gomock.Any(), worldID).Return(&model.World{
				ID:       worldID,
				UserID:   "u1",
				Public:   true,
				Features: model.WorldFeatures{Chat: true},
			}, nil).AnyTimes()
			server = httptest.NewServer(h)
		})

		AfterEach(func() {
			server.Close()
		})

		It("should relay messages and reply to the sender only", func() {
			alice := dial()
			defer alice.Close()
			bob := dial()
			defer bob.Close()
			Eventually(func() int { return broker.Subscribers(realtime.ChatTopic(worldID)) }).Should(Equal(2))

			payload, err := json.Marshal(web.ChatMessage{ID: "m1", Content: "hello"})
			Expect(err).NotTo(HaveOccurred())
			Expect(alice.WriteJSON(web.ChatEnvelope{Type: web.ChatFrameMessage, Payload: payload})).To(Succeed())

			Expect(readFrame(alice).Type).To(Equal(web.ChatFrameTyping))
			reply := readFrame(alice)
			Expect(reply.Type).To(Equal(web.ChatFrameMessage))
			var message web.ChatMessage
			Expect(json.Unmarshal(reply.Payload, &message)).To(Succeed())
			Expect(message.Role).To(Equal(entity.RoleAssistant))
			Expect(message.Content).To(HavePrefix("Hello! Welcome to this AI World."))

			relayed := readFrame(bob)
			Expect(relayed.Type).To(Equal(web.ChatFrameMessage))
			Expect(json.Unmarshal(relayed.Payload, &message)).To(Succeed())
			Expect(message.ID).To(Equal("m1"))
			Expect(message.Role).To(Equal(entity.RoleUser))
		})

		It("should leave the topic when the client disconnects", func() {
			conn := dial()
			Eventually(func() int { return broker.Subscribers(realtime.ChatTopic(worldID)) }).Should(Equal(1))

			Expect(conn.Close()).To(Succeed())
			Eventually(func() int { return broker.Subscribers(realtime.ChatTopic(worldID)) }).Should(Equal(0))
		})
	})
})

func Test(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Handler Suite")
}
