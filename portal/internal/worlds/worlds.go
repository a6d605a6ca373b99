package worlds

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/aiuniverse/universe/internal/entity/web"
	"github.com/aiuniverse/universe/portal/internal/db/model"
	"github.com/aiuniverse/universe/portal/internal/realtime"
	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("world not found")
	ErrDupSlug     = errors.New("this world name is already taken")
	ErrPermission  = errors.New("permission denied for world")
	ErrInvalidSlug = errors.New("world slug must contain letters or digits")
	ErrNoTitle     = errors.New("world title is required")
)

const ChangeEvent = "world"

var defaultTheme = web.WorldTheme{
	Color: "blue",
	Mode:  "light",
}

type Publisher interface {
	Publish(ctx context.Context, topic string, msg realtime.Message) error
}

type WorldService struct {
	repo      Repository
	publisher Publisher
	now       func() time.Time
}

func New(repo Repository, publisher Publisher) *WorldService {
	return &WorldService{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

// List returns the worlds owned by ownerID, or every public world when ownerID is empty.
// Newest worlds come first.
func (s *WorldService) List(ctx context.Context, ownerID string) ([]model.World, error) {
	if ownerID != "" {
		return s.repo.ListByOwner(ctx, ownerID)
	}
	return s.repo.ListPublic(ctx)
}

// Get returns a world visible to viewerID. Private worlds are only visible to their owner.
func (s *WorldService) Get(ctx context.Context, viewerID, id string) (*model.World, error) {
	world, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !world.Public && world.UserID != viewerID {
		return nil, ErrNotFound
	}
	return world, nil
}

func (s *WorldService) GetBySlug(ctx context.Context, viewerID, slug string) (*model.World, error) {
	world, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !world.Public && world.UserID != viewerID {
		return nil, ErrNotFound
	}
	return world, nil
}

// GetOwned returns the world only when ownerID owns it.
func (s *WorldService) GetOwned(ctx context.Context, ownerID, id string) (*model.World, error) {
	world, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if world.UserID != ownerID {
		return nil, ErrPermission
	}
	return world, nil
}

func (s *WorldService) Create(ctx context.Context, ownerID string, input web.WorldInput) (*model.World, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, ErrNoTitle
	}

	slug := input.Slug
	if slug == "" {
		slug = input.Title
	}
	input.Slug = GenerateSlug(slug)
	if input.Slug == "" {
		return nil, ErrInvalidSlug
	}

	if err := mergo.Merge(&input.Theme, defaultTheme); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	world := fromWeb(web.World{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Title:       input.Title,
		Description: input.Description,
		Slug:        input.Slug,
		Domain:      input.Domain,
		Theme:       input.Theme,
		Features:    input.Features,
		Pricing:     input.Pricing,
		Public:      input.Public,
		CreatedAt:   now,
		UpdatedAt:   now,
	})

	if err := s.repo.Insert(ctx, world); err != nil {
		return nil, err
	}

	s.publish(ctx, web.ChangeInsert, world)

	return world, nil
}

func (s *WorldService) Update(ctx context.Context, ownerID, id string, patch web.WorldPatch) (*model.World, error) {
	current, err := s.GetOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, ErrNoTitle
		}
		patch.Title = &title
	}
	if patch.Slug != nil {
		slug := GenerateSlug(*patch.Slug)
		if slug == "" {
			return nil, ErrInvalidSlug
		}
		patch.Slug = &slug
	}

	merged := ToWeb(current)
	patch.ApplyTo(&merged)
	merged.UpdatedAt = s.now().UTC()

	world := fromWeb(merged)
	if err := s.repo.Update(ctx, world); err != nil {
		return nil, err
	}

	s.publish(ctx, web.ChangeUpdate, world)

	return world, nil
}

func (s *WorldService) Delete(ctx context.Context, ownerID, id string) error {
	world, err := s.GetOwned(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, web.ChangeDelete, world)

	return nil
}

func (s *WorldService) publish(ctx context.Context, changeType web.ChangeType, world *model.World) {
	if s.publisher == nil {
		return
	}

	msg, err := realtime.NewMessage(ctx, ChangeEvent, "", web.WorldChange{
		Type:  changeType,
		World: ToWeb(world),
	})
	if err != nil {
		slog.Error("Failed to encode world change", slog.Any("error", err))
		return
	}
	if err := s.publisher.Publish(ctx, realtime.WorldTopic(world.ID), msg); err != nil {
		slog.Error("Failed to publish world change", slog.String("world_id", world.ID), slog.Any("error", err))
	}
}

func ToWeb(w *model.World) web.World {
	return web.World{
		ID:          w.ID,
		UserID:      w.UserID,
		Title:       w.Title,
		Description: w.Description,
		Slug:        w.Slug,
		Domain:      w.Domain,
		Theme:       web.WorldTheme(w.Theme),
		Features:    web.WorldFeatures(w.Features),
		Pricing:     web.WorldPricing(w.Pricing),
		Public:      w.Public,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func ToWebList(worlds []model.World) []web.World {
	result := make([]web.World, 0, len(worlds))
	for i := range worlds {
		result = append(result, ToWeb(&worlds[i]))
	}
	return result
}

func fromWeb(w web.World) *model.World {
	return &model.World{
		ID:          w.ID,
		UserID:      w.UserID,
		Title:       w.Title,
		Description: w.Description,
		Slug:        w.Slug,
		Domain:      w.Domain,
		Theme:       model.WorldTheme(w.Theme),
		Features:    model.WorldFeatures(w.Features),
		Pricing:     model.WorldPricing(w.Pricing),
		Public:      w.Public,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}
