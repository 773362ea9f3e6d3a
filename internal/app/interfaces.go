package app

import (
	"context"

	"coderunner/internal/catalog"
)

type Copier interface {
	Copy(ctx context.Context, text string) error
}

type Exporter interface {
	Export(lang catalog.Language, text string) (string, error)
}
