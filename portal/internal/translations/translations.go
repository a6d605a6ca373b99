package translations

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aiuniverse/universe/internal/entity/web"
	"github.com/aiuniverse/universe/portal/internal/db/model"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	ErrInvalidLanguage = errors.New("invalid language code")
	ErrInvalidContent  = errors.New("translation content must be a JSON object")
)

var languagePattern = regexp.MustCompile(`^[a-z]{2,3}(-[a-z0-9]{2,8})?$`)

type WorldOwner interface {
	GetOwned(ctx context.Context, ownerID, id string) (*model.World, error)
}

type TranslationService struct {
	db     *bun.DB
	worlds WorldOwner
	now    func() time.Time
}

func New(db *bun.DB, worlds WorldOwner) *TranslationService {
	return &TranslationService{
		db:     db,
		worlds: worlds,
		now:    time.Now,
	}
}

// NormalizeLanguage lowercases a BCP 47 style tag such as "pt-BR" and
// reports whether it is acceptable.
func NormalizeLanguage(code string) (string, bool) {
	code = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(code, "_", "-")))
	return code, languagePattern.MatchString(code)
}

func isObject(content json.RawMessage) bool {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	return json.Valid(trimmed)
}

// Upsert stores content for one language of a world. Only the owner may write.
func (s *TranslationService) Upsert(ctx context.Context, ownerID, worldID, language string, content json.RawMessage) (*model.Translation, error) {
	language, ok := NormalizeLanguage(language)
	if !ok {
		return nil, ErrInvalidLanguage
	}
	if !isObject(content) {
		return nil, ErrInvalidContent
	}

	if _, err := s.worlds.GetOwned(ctx, ownerID, worldID); err != nil {
		return nil, err
	}

	translation := &model.Translation{
		ID:           uuid.NewString(),
		WorldID:      worldID,
		LanguageCode: language,
		Content:      content,
		UpdatedAt:    s.now().UTC(),
	}
	_, err := s.db.NewInsert().
		Model(translation).
		On("CONFLICT (world_id, language_code) DO UPDATE").
		Set("content = EXCLUDED.content").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("id").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("upsert translation: %w", err)
	}

	return translation, nil
}

func (s *TranslationService) List(ctx context.Context, worldID string) ([]model.Translation, error) {
	var translations []model.Translation
	if err := s.db.NewSelect().Model(&translations).Where("world_id = ?", worldID).Order("language_code ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}
	return translations, nil
}

func ToWeb(t *model.Translation) web.Translation {
	return web.Translation{
		ID:           t.ID,
		WorldID:      t.WorldID,
		LanguageCode: t.LanguageCode,
		Content:      t.Content,
		UpdatedAt:    t.UpdatedAt,
	}
}

func ToWebList(translations []model.Translation) []web.Translation {
	result := make([]web.Translation, 0, len(translations))
	for i := range translations {
		result = append(result, ToWeb(&translations[i]))
	}
	return result
}
