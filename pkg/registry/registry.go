// Package registry provides the node kind catalog: the set of node kinds the
// builder can place on the canvas, each with a JSON schema for its raw
// configuration map.
package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/xeipuuv/gojsonschema"

	"github.com/chatflowhq/chatflow/pkg/models"
)

// KindDefinition describes one node kind available in the builder.
type KindDefinition struct {
	ID          models.NodeKind `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Schema      map[string]any  `json:"schema"`
}

type Registry struct {
	logger *slog.Logger
	kinds  map[models.NodeKind]*KindDefinition
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		logger: log,
		kinds:  make(map[models.NodeKind]*KindDefinition),
	}
}

// RegisterKind adds a kind definition to the catalog. Registering the same
// kind twice replaces the earlier definition.
func (r *Registry) RegisterKind(def *KindDefinition) {
	r.kinds[def.ID] = def
}

// KindByID returns the definition for a kind.
func (r *Registry) KindByID(kind models.NodeKind) (*KindDefinition, error) {
	def, ok := r.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("node kind '%s' not registered", kind)
	}

	return def, nil
}

// Kinds returns all registered kind definitions sorted by ID.
func (r *Registry) Kinds() []*KindDefinition {
	defs := make([]*KindDefinition, 0, len(r.kinds))
	for _, def := range r.kinds {
		defs = append(defs, def)
	}

	sort.Slice(defs, func(i, j int) bool {
		return defs[i].ID < defs[j].ID
	})

	return defs
}

// ValidateRawConfig checks a raw node data map against the kind's JSON
// schema. It reports structural errors only; content rules such as character
// limits are the validation engine's job.
func (r *Registry) ValidateRawConfig(kind models.NodeKind, data map[string]any) error {
	def, err := r.KindByID(kind)
	if err != nil {
		return err
	}

	schemaLoader := gojsonschema.NewGoLoader(def.Schema)
	dataLoader := gojsonschema.NewGoLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed for kind '%s': %w", kind, err)
	}

	if !result.Valid() {
		errs := result.Errors()
		if len(errs) > 0 {
			return fmt.Errorf("invalid configuration for kind '%s': %s", kind, errs[0].String())
		}

		return fmt.Errorf("invalid configuration for kind '%s'", kind)
	}

	return nil
}
