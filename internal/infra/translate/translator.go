package translate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"gamecatalog/config"
	"gamecatalog/internal/domain/entity"
	"gamecatalog/internal/domain/repository"
	"gamecatalog/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Params defines the dependencies of the translator.
type Params struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
	Memos  repository.TranslationRepository
}

// memoTranslator consults the translation memo before calling the provider
// and falls back to the source text on any failure.
type memoTranslator struct {
	provider Provider
	memos    repository.TranslationRepository
	logger   *slog.Logger
	now      func() time.Time
}

// New builds the translator. Without an API key translation is disabled and
// text passes through unchanged.
func New(params Params) (service.Translator, error) {
	cfg := params.Config.Translate
	if cfg.APIKey == "" {
		params.Logger.Info("Translation disabled: no API key configured")

		return NewTranslator(nil, params.Memos, params.Logger), nil
	}

	provider, err := NewGoogleProvider(context.Background(), cfg.APIKey, cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	return NewTranslator(provider, params.Memos, params.Logger), nil
}

// NewTranslator wraps provider with the memo. A nil provider disables translation.
func NewTranslator(provider Provider, memos repository.TranslationRepository, logger *slog.Logger) service.Translator {
	return &memoTranslator{
		provider: provider,
		memos:    memos,
		logger:   logger,
		now:      time.Now,
	}
}

func (t *memoTranslator) Translate(ctx context.Context, text, source, target string) string {
	if strings.TrimSpace(text) == "" || t.provider == nil || source == target {
		return text
	}

	key := memoKey(source, target, text)

	if t.memos != nil {
		memo, err := t.memos.FindByHash(ctx, key)
		if err == nil {
			return memo.TranslatedText
		}
		if !errors.Is(err, repository.ErrTranslationMemoNotFound) {
			t.logger.DebugContext(ctx, "Translation memo lookup failed", slog.Any("error", err))
		}
	}

	translated, err := t.provider.Translate(ctx, text, source, target)
	if err != nil {
		t.logger.WarnContext(ctx, "Translation failed, keeping source text",
			slog.String("source", source),
			slog.String("target", target),
			slog.Any("error", err),
		)

		return text
	}

	if t.memos != nil {
		if err := t.memos.Save(ctx, &entity.TranslationMemo{
			SourceHash:     key,
			SourceText:     text,
			TranslatedText: translated,
			SourceLang:     source,
			TargetLang:     target,
			CreatedAt:      t.now(),
		}); err != nil {
			t.logger.DebugContext(ctx, "Translation memo write failed", slog.Any("error", err))
		}
	}

	return translated
}

func memoKey(source, target, text string) string {
	sum := sha256.Sum256([]byte(source + "\x00" + target + "\x00" + text))

	return hex.EncodeToString(sum[:])
}
