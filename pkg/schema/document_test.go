package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "examples", "fixtures", name))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

func TestParse_JSON(t *testing.T) {
	s, err := Parse(fixture(t, "onboarding.json"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.ID != "onboarding" || s.StepCount() != 2 || !s.ShowProgress() {
		t.Fatalf("unexpected schema header: %s %d", s.ID, s.StepCount())
	}
	plan, ok := s.Field("plan")
	if !ok || len(plan.Options) != 3 {
		t.Fatalf("plan options not decoded: %+v", plan)
	}
	if plan.Options[0] != (ChoiceOption{Value: "Starter", Label: "Starter"}) || plan.Options[2].Label != "enterprise" {
		t.Fatalf("options not normalized: %+v", plan.Options)
	}
	email, _ := s.Field("email")
	if email.PatternRegexp() == nil || *email.Validation.MaxLength != 120 {
		t.Fatalf("validation not decoded: %+v", email.Validation)
	}
}

func TestParse_YAML(t *testing.T) {
	s, err := Parse(fixture(t, "feedback.yaml"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	score, ok := s.Field("score")
	if !ok || score.Scale == nil || score.Scale.Labels[5] != "Very useful" {
		t.Fatalf("scale not decoded: %+v", score.Scale)
	}
	followUp, _ := s.Field("follow_up")
	if followUp.Visibility.Equals != float64(2) || followUp.Visibility.Op() != OperatorLTE {
		t.Fatalf("visibility not normalized: %+v", followUp.Visibility)
	}
	sessions, _ := s.Field("sessions")
	if len(sessions.Rows) != 2 || len(sessions.Columns) != 3 {
		t.Fatalf("grid not decoded: %+v", sessions)
	}
}

func TestParse_InvalidFixture(t *testing.T) {
	_, err := Parse(fixture(t, "invalid.json"))
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []error{ErrDuplicateFieldID, ErrUnknownFieldType, ErrUnknownDependency} {
		if !errors.Is(err, want) {
			t.Fatalf("expected %v in %v", want, err)
		}
	}
	if got := len(SchemaErrors(err)); got != 3 {
		t.Fatalf("expected 3 schema errors, got %d", got)
	}
}

func TestParse_Malformed(t *testing.T) {
	if _, err := Parse([]byte("{not json")); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := Parse([]byte("   ")); err == nil {
		t.Fatalf("expected empty document error")
	}
}

func TestDocument_Accessors(t *testing.T) {
	raw := []byte(`{"id":"x","sections":[{"id":"a","fields":[{"id":"q","type":"text"}]}]}`)
	doc := MustNewDocument(SourceFromFile("forms/x.json"), raw)
	if doc.Location() != filepath.Clean("forms/x.json") || doc.Source().Kind() != SourceKindFile {
		t.Fatalf("unexpected source %q", doc.Location())
	}
	copyRaw := doc.Raw()
	copyRaw[0] = '['
	if doc.Raw()[0] != '{' {
		t.Fatalf("Raw must return a copy")
	}
	if _, err := NewDocument(nil, raw); err == nil {
		t.Fatalf("expected error for nil source")
	}
}
