package ports

import (
	"context"

	"github.com/aretw0/missionkit/pkg/domain"
)

// TemplateLoader reads template definitions from an external source
// (a directory of markdown files, a database) so they can be added to a catalog.
type TemplateLoader interface {
	LoadTemplates(ctx context.Context) ([]domain.Template, error)
}
