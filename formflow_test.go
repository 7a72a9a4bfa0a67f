package formflow_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formflow"
	"github.com/goliatone/go-formflow/pkg/engine"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/submit"
	"github.com/goliatone/go-formflow/pkg/testsupport"
)

func TestLoadSchemaFile(t *testing.T) {
	s, err := formflow.LoadSchemaFile(testsupport.Context(), "examples/fixtures/onboarding.json")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.ID != "onboarding" || s.StepCount() != 2 {
		t.Fatalf("unexpected schema %q with %d steps", s.ID, s.StepCount())
	}
	if !s.ShowProgress() || !s.AllowEditAfterSubmit() {
		t.Fatalf("settings were not decoded")
	}
}

func TestLoadSchemaFile_Missing(t *testing.T) {
	_, err := formflow.LoadSchemaFile(context.Background(), "examples/fixtures/missing.json")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestLoadSchemaFile_Invalid(t *testing.T) {
	_, err := formflow.LoadSchemaFile(context.Background(), "examples/fixtures/invalid.json")
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := len(schema.SchemaErrors(err)); got != 3 {
		t.Fatalf("expected 3 schema errors, got %d: %v", got, err)
	}
}

func TestLoadSchemaFS(t *testing.T) {
	files := fstest.MapFS{
		"forms/mini.yaml": &fstest.MapFile{Data: []byte(`
id: mini
title: Mini
sections:
  - id: only
    title: Only
    fields:
      - id: name
        type: text
        required: true
`)},
	}
	s, err := formflow.LoadSchemaFS(context.Background(), files, "forms/mini.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := s.Field("name"); !ok {
		t.Fatalf("field name missing")
	}
}

func TestEndToEnd(t *testing.T) {
	s := testsupport.LoadSchema(t, "examples/fixtures/onboarding.json")

	var got formflow.Result
	e, err := formflow.NewEngine(s, engine.WithSubmitter(submit.SubmitterFunc(func(_ context.Context, r submit.Result) error {
		got = r
		return nil
	})))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}

	mustSet := func(id string, value any) {
		t.Helper()
		if err := e.Set(id, value); err != nil {
			t.Fatalf("set %s: %v", id, err)
		}
	}
	mustSet("email", "ada@biz.com")
	mustSet("plan", "pro")
	if err := e.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}

	view := e.View()
	var ids []string
	for _, f := range view.Fields {
		ids = append(ids, f.Field.ID)
	}
	want := []string{"company_notice", "company_name", "seats", "start_date", "notes"}
	if diff := testsupport.CompareGolden(want, ids); diff != "" {
		t.Fatalf("visible fields (-want +got):\n%s", diff)
	}

	if err := e.Submit(context.Background()); err == nil {
		t.Fatalf("expected company_name to block submit")
	}
	mustSet("company_name", "Acme")
	mustSet("start_date", "2024-07-01T09:00:00Z")
	if err := e.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	values := got.Values()
	if values["start_date"] != "2024-07-01" || values["seats"] != nil {
		t.Fatalf("unexpected values %#v", values)
	}
	if _, ok := values["company_notice"]; ok {
		t.Fatalf("description fields never appear in results")
	}
}

func TestEmbeddedTemplates(t *testing.T) {
	if _, err := fs.ReadFile(formflow.EmbeddedTemplates(), "templates/step.tmpl"); err != nil {
		t.Fatalf("embedded step template: %v", err)
	}
}
