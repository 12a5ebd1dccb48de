// Package translate adapts Google Cloud Translation to the domain Translator.
package translate

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/api/option"
	translatev2 "google.golang.org/api/translate/v2"
)

// Provider performs a single remote translation.
type Provider interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

type googleProvider struct {
	svc *translatev2.Service
}

// NewGoogleProvider creates a Translation v2 client authenticated with an API key.
// endpoint overrides the service base path when non-empty.
func NewGoogleProvider(ctx context.Context, apiKey, endpoint string) (Provider, error) {
	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	svc, err := translatev2.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create translation service")
	}

	return &googleProvider{svc: svc}, nil
}

func (p *googleProvider) Translate(ctx context.Context, text, source, target string) (string, error) {
	resp, err := p.svc.Translations.List([]string{text}, target).
		Source(source).
		Format("text").
		Context(ctx).
		Do()
	if err != nil {
		return "", errors.Wrap(err, "translation request failed")
	}

	if len(resp.Translations) == 0 || resp.Translations[0].TranslatedText == "" {
		return "", errors.New("translation response was empty")
	}

	return resp.Translations[0].TranslatedText, nil
}
