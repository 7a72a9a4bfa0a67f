// Package formflow loads declarative multi-step form schemas and runs form
// sessions over them. The root package is a thin facade over pkg/schema and
// pkg/engine for the common paths.
package formflow

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-formflow/pkg/engine"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/submit"
)

// Schema aliases schema.Schema.
type Schema = schema.Schema

// Engine aliases engine.Engine.
type Engine = engine.Engine

// Result aliases submit.Result.
type Result = submit.Result

// Submitter aliases submit.Submitter.
type Submitter = submit.Submitter

// LoadSchema decodes a JSON or YAML schema held in memory.
func LoadSchema(data []byte) (*Schema, error) {
	return schema.Parse(data)
}

// LoadSchemaFile reads and decodes the schema at path.
func LoadSchemaFile(ctx context.Context, path string) (*Schema, error) {
	return loadSource(ctx, NewLoader(), schema.SourceFromFile(path))
}

// LoadSchemaFS reads and decodes the schema named name inside files.
func LoadSchemaFS(ctx context.Context, files fs.FS, name string) (*Schema, error) {
	return loadSource(ctx, NewLoader(schema.WithFileSystem(files)), schema.SourceFromFS(name))
}

func loadSource(ctx context.Context, loader schema.Loader, src schema.Source) (*Schema, error) {
	doc, err := loader.Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("formflow: load %s: %w", src.Location(), err)
	}
	return doc.Decode()
}

// NewEngine starts a form session over s.
func NewEngine(s *Schema, options ...engine.Option) (*Engine, error) {
	return engine.New(s, options...)
}
