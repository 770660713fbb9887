// Package loam loads mission templates from a directory of documents
// (markdown with YAML frontmatter, or plain JSON/YAML) through Loam.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/missionkit/pkg/domain"
)

// Loader adapts a Loam repository to ports.TemplateLoader.
type Loader struct {
	Repo *loam.TypedRepository[TemplateMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[TemplateMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only Loam repository rooted at dir.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	// The editor never writes templates back, so Loam runs read-only.
	repo, err := loam.Init(absPath, loam.WithReadOnly(true))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[TemplateMetadata](repo)), nil
}

// Get loads a single template document.
func (l *Loader) Get(ctx context.Context, id string) (domain.Template, error) {
	doc, err := l.Repo.Get(ctx, id)
	if err != nil {
		return domain.Template{}, fmt.Errorf("loam get failed for %s: %w", id, err)
	}
	return buildTemplate(doc.ID, doc.Data, doc.Content)
}

// LoadTemplates reads every document in the repository, sorted by template id.
func (l *Loader) LoadTemplates(ctx context.Context) ([]domain.Template, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	templates := make([]domain.Template, 0, len(docs))
	for _, doc := range docs {
		tpl, err := buildTemplate(doc.ID, doc.Data, doc.Content)
		if err != nil {
			return nil, err
		}
		if existing, ok := seen[tpl.ID]; ok {
			return nil, fmt.Errorf("collision detected: template ID '%s' is defined in both '%s' and '%s'", tpl.ID, existing, doc.ID)
		}
		seen[tpl.ID] = doc.ID
		templates = append(templates, tpl)
	}

	slices.SortFunc(templates, func(a, b domain.Template) int { return strings.Compare(a.ID, b.ID) })
	return templates, nil
}

func buildTemplate(docID string, meta TemplateMetadata, content string) (domain.Template, error) {
	rawID := meta.ID
	if rawID == "" {
		rawID = docID
	}

	tpl := domain.Template{
		ID:          trimExtension(rawID),
		Name:        meta.Name,
		Description: meta.Description,
		Category:    meta.Category,
		Duration:    meta.Duration,
		Difficulty:  meta.Difficulty,
		Steps:       make([]domain.Step, 0, len(meta.Steps)),
	}
	if tpl.Name == "" {
		tpl.Name = tpl.ID
	}
	// The document body is the long-form description.
	if body := strings.TrimSpace(content); body != "" && tpl.Description == "" {
		tpl.Description = body
	}

	seen := make(map[string]bool, len(meta.Steps))
	for i, sm := range meta.Steps {
		if sm.ID == "" {
			return domain.Template{}, fmt.Errorf("template %s: step %d has no id", tpl.ID, i)
		}
		if seen[sm.ID] {
			return domain.Template{}, fmt.Errorf("template %s: duplicate step id %q", tpl.ID, sm.ID)
		}
		seen[sm.ID] = true
		if sm.Kind == "" {
			return domain.Template{}, fmt.Errorf("template %s: step %s has no kind", tpl.ID, sm.ID)
		}

		config := sm.Config
		if config == nil {
			config = map[string]any{}
		}
		connections := make([]string, 0, len(sm.Connections)+len(sm.To))
		connections = append(connections, sm.Connections...)
		connections = append(connections, sm.To...)

		step := domain.Step{
			ID:          sm.ID,
			Kind:        domain.Kind(sm.Kind),
			Title:       sm.Title,
			Description: sm.Description,
			Config:      config,
			Position:    domain.Position{X: sm.Position.X, Y: sm.Position.Y},
			Connections: connections,
		}
		tpl.Steps = append(tpl.Steps, step.Clone())
	}
	return tpl, nil
}

func trimExtension(id string) string {
	return strings.TrimSuffix(id, filepath.Ext(id))
}
