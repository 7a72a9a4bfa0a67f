package engine_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formflow/pkg/engine"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/submit"
	"github.com/goliatone/go-formflow/pkg/validation"
)

func signupSchema(t *testing.T, allowEdit bool) *schema.Schema {
	t.Helper()
	s, err := schema.New(schema.Schema{
		ID:       "signup",
		Title:    "Signup",
		Version:  "2",
		Settings: &schema.Settings{AllowEditAfterSubmit: allowEdit, ShowProgress: true},
		Sections: []schema.Section{
			{
				ID: "contact",
				Fields: []schema.Field{
					{ID: "email", Type: schema.FieldTypeText, Required: true},
					{ID: "plan", Type: schema.FieldTypeRadio, Required: true, Options: []schema.ChoiceOption{{Value: "starter"}, {Value: "pro"}}},
				},
			},
			{
				ID: "company",
				Fields: []schema.Field{
					{ID: "intro", Type: schema.FieldTypeDescription, Content: "About your company"},
					{
						ID: "company_name", Type: schema.FieldTypeText, Required: true,
						Visibility: &schema.VisibilityRule{DependsOn: "email", Operator: schema.OperatorEndsWith, Equals: "@biz.com"},
					},
					{
						ID: "seats", Type: schema.FieldTypeSelect, Required: true,
						Options:    []schema.ChoiceOption{{Value: "1-10"}, {Value: "11-50"}},
						Visibility: &schema.VisibilityRule{DependsOn: "plan", Equals: "pro"},
					},
				},
			},
			{
				ID: "wrap",
				Fields: []schema.Field{
					{ID: "topics", Type: schema.FieldTypeCheckbox, Options: []schema.ChoiceOption{{Value: "a"}, {Value: "b"}, {Value: "c"}}},
					{ID: "notes", Type: schema.FieldTypeTextArea},
					{ID: "rating", Type: schema.FieldTypeScale, Required: true, Scale: &schema.ScaleConfig{Min: 1, Max: 5}},
				},
			},
		},
	})
	require.NoError(t, err)
	return s
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

type captured struct {
	calls   int
	fail    int
	results []submit.Result
}

func (c *captured) Submit(_ context.Context, result submit.Result) error {
	c.calls++
	if c.fail > 0 {
		c.fail--
		return errors.New("upstream unavailable")
	}
	c.results = append(c.results, result)
	return nil
}

func newEngine(t *testing.T, allowEdit bool, opts ...engine.Option) (*engine.Engine, *captured) {
	t.Helper()
	sub := &captured{}
	base := []engine.Option{
		engine.WithSubmitter(sub),
		engine.WithIDGenerator(sequentialIDs()),
		engine.WithClock(func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }),
	}
	e, err := engine.New(signupSchema(t, allowEdit), append(base, opts...)...)
	require.NoError(t, err)
	return e, sub
}

func TestNew(t *testing.T) {
	e, _ := newEngine(t, false)
	assert.Equal(t, 0, e.Step())
	assert.Equal(t, 3, e.TotalSteps())
	assert.True(t, e.IsFirst())
	assert.False(t, e.IsLast())
	assert.Equal(t, 33, e.Progress())
	assert.Equal(t, "id-1", e.SessionID())
	assert.False(t, e.Submitted())

	_, err := engine.New(nil)
	require.Error(t, err)
}

func TestAdvance_BlocksOnRequiredFields(t *testing.T) {
	e, _ := newEngine(t, false)

	err := e.Advance()
	var verr *validation.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, verr.Step)
	assert.Equal(t, "contact", verr.Section)
	assert.Equal(t, []string{"email", "plan"}, verr.FieldIDs())
	assert.Equal(t, 0, e.Step())

	view := e.View()
	require.True(t, view.HasErrors())
	email, ok := view.Field("email")
	require.True(t, ok)
	assert.Equal(t, []string{"required"}, email.Messages())

	require.NoError(t, e.Set("email", "ada@home.org"))
	view = e.View()
	email, _ = view.Field("email")
	assert.Empty(t, email.Errors, "editing a field clears its errors")
}

func TestRetreat_ClampsAndSkipsValidation(t *testing.T) {
	e, _ := newEngine(t, false)
	require.NoError(t, e.Retreat())
	assert.Equal(t, 0, e.Step())

	require.NoError(t, e.Set("email", "ada@home.org"))
	require.NoError(t, e.Set("plan", "starter"))
	require.NoError(t, e.Advance())
	require.NoError(t, e.Clear("email"))
	require.NoError(t, e.Retreat(), "going back never validates")
	assert.Equal(t, 0, e.Step())
}

func TestHiddenRequiredFieldNeverBlocks(t *testing.T) {
	e, _ := newEngine(t, false)
	require.NoError(t, e.Set("email", "ada@home.org"))
	require.NoError(t, e.Set("plan", "starter"))
	require.NoError(t, e.Advance())

	view := e.View()
	require.Len(t, view.Fields, 1)
	assert.Equal(t, "intro", view.Fields[0].Field.ID)
	assert.False(t, view.Fields[0].Interactive())

	require.NoError(t, e.Advance())
	assert.Equal(t, 2, e.Step())
	assert.True(t, e.IsLast())
}

func TestRevealedFieldBlocksAdvance(t *testing.T) {
	e, _ := newEngine(t, false)
	require.NoError(t, e.Set("email", "ada@biz.com"))
	require.NoError(t, e.Set("plan", "pro"))
	assert.True(t, e.Visible("company_name"))
	assert.True(t, e.Visible("seats"))
	require.NoError(t, e.Advance())

	var verr *validation.ValidationError
	require.ErrorAs(t, e.Advance(), &verr)
	assert.Equal(t, []string{"company_name", "seats"}, verr.FieldIDs())

	require.NoError(t, e.Set("company_name", "Acme"))
	require.NoError(t, e.Set("seats", "11-50"))
	require.NoError(t, e.Advance())
	assert.Equal(t, 2, e.Step())
}

func TestAdvance_StaysOnLastStep(t *testing.T) {
	e, _ := newEngine(t, false, engine.WithPrefill(map[string]any{
		"email": "ada@home.org", "plan": "starter", "rating": 3,
	}))
	require.NoError(t, e.GoTo(2))
	require.NoError(t, e.Advance())
	assert.Equal(t, 2, e.Step())
}

func TestSubmit(t *testing.T) {
	e, sub := newEngine(t, false)
	require.NoError(t, e.Set("email", "ada@biz.com"))
	require.NoError(t, e.Set("plan", "starter"))

	require.ErrorIs(t, e.Submit(context.Background()), engine.ErrNotTerminalStep)

	require.NoError(t, e.Advance())
	require.NoError(t, e.Set("company_name", "Acme"))
	require.NoError(t, e.Advance())

	var verr *validation.ValidationError
	require.ErrorAs(t, e.Submit(context.Background()), &verr)
	assert.Equal(t, 0, sub.calls)

	require.NoError(t, e.Toggle("topics", "c", true))
	require.NoError(t, e.Toggle("topics", "a", true))
	require.NoError(t, e.Set("rating", "4"))
	require.NoError(t, e.Submit(context.Background()))

	require.Equal(t, 1, sub.calls)
	result := sub.results[0]
	assert.Equal(t, "signup", result.SchemaID)
	assert.Equal(t, "2", result.Version)
	assert.Equal(t, "id-1", result.SessionID)
	assert.Equal(t, "id-2", result.SubmissionID)
	assert.Equal(t, map[string]any{
		"email":        "ada@biz.com",
		"plan":         "starter",
		"company_name": "Acme",
		"topics":       []string{"a", "c"},
		"notes":        nil,
		"rating":       float64(4),
	}, result.Values())

	stored, ok := e.Result()
	require.True(t, ok)
	assert.Equal(t, result.SubmissionID, stored.SubmissionID)
	assert.True(t, e.Submitted())
	assert.True(t, e.View().Submitted)

	require.ErrorIs(t, e.Submit(context.Background()), engine.ErrAlreadySubmitted)
	require.ErrorIs(t, e.Set("notes", "late"), engine.ErrAlreadySubmitted)
	require.ErrorIs(t, e.Retreat(), engine.ErrAlreadySubmitted)
	require.ErrorIs(t, e.Reopen(), engine.ErrReopenNotAllowed)
	assert.Equal(t, 1, sub.calls)
}

func TestSubmit_FailureKeepsSessionEditable(t *testing.T) {
	e, sub := newEngine(t, true, engine.WithPrefill(map[string]any{
		"email": "ada@home.org", "plan": "starter", "rating": 5,
	}))
	sub.fail = 1
	require.NoError(t, e.GoTo(2))

	err := e.Submit(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream unavailable")
	assert.False(t, e.Submitted())
	_, ok := e.Result()
	assert.False(t, ok)

	require.NoError(t, e.Set("notes", "second try"))
	require.NoError(t, e.Submit(context.Background()))
	assert.Equal(t, 2, sub.calls)
	require.Len(t, sub.results, 1)
	assert.Equal(t, "second try", sub.results[0].Values()["notes"])

	require.NoError(t, e.Reopen())
	assert.False(t, e.Submitted())
	assert.Equal(t, 2, e.Step())
	require.NoError(t, e.Set("notes", "edited"))
	require.NoError(t, e.Submit(context.Background()))
	assert.Equal(t, "edited", sub.results[1].Values()["notes"])
}

func TestSubmit_ValidateAllMovesToFirstFailingStep(t *testing.T) {
	e, sub := newEngine(t, false, engine.WithValidateAllOnSubmit(), engine.WithPrefill(map[string]any{
		"email": "ada@home.org", "plan": "starter", "rating": 2,
	}))
	require.NoError(t, e.GoTo(2))
	require.NoError(t, e.Clear("plan"))

	var verr *validation.ValidationError
	require.ErrorAs(t, e.Submit(context.Background()), &verr)
	assert.Equal(t, 0, verr.Step)
	assert.Equal(t, 0, e.Step())
	assert.Zero(t, sub.calls)
}

func TestHiddenAnswersAreKeptButNotSubmitted(t *testing.T) {
	e, sub := newEngine(t, false)
	require.NoError(t, e.Set("email", "ada@biz.com"))
	require.NoError(t, e.Set("company_name", "Acme"))
	require.NoError(t, e.Set("email", "ada@home.org"))

	assert.False(t, e.Visible("company_name"))
	value, ok := e.Value("company_name")
	require.True(t, ok)
	assert.Equal(t, "Acme", value.String())

	require.NoError(t, e.Set("plan", "starter"))
	require.NoError(t, e.Set("rating", 1))
	require.NoError(t, e.GoTo(2))
	require.NoError(t, e.Submit(context.Background()))
	_, present := sub.results[0].Answers["company_name"]
	assert.False(t, present)
}

func TestGoTo(t *testing.T) {
	e, _ := newEngine(t, false)
	require.ErrorIs(t, e.GoTo(7), engine.ErrStepOutOfRange)
	require.ErrorIs(t, e.GoTo(-1), engine.ErrStepOutOfRange)

	var verr *validation.ValidationError
	require.ErrorAs(t, e.GoTo(2), &verr)
	assert.Equal(t, 0, e.Step())

	require.NoError(t, e.Set("email", "x@y.z"))
	require.NoError(t, e.Set("plan", "starter"))
	require.NoError(t, e.GoTo(2))
	require.NoError(t, e.GoTo(0))
	assert.Equal(t, 0, e.Step())
}

func TestEditErrors(t *testing.T) {
	e, _ := newEngine(t, false)
	require.ErrorIs(t, e.Set("ghost", "x"), engine.ErrUnknownField)
	require.ErrorIs(t, e.Set("intro", "x"), engine.ErrNotInteractive)
	require.Error(t, e.Set("plan", "platinum"))
	require.Error(t, e.Set("rating", 9))
	require.Error(t, e.Toggle("topics", "z", true))

	_, ok := e.Value("plan")
	assert.False(t, ok, "rejected input must not be stored")

	planErrs := e.Errors("plan")
	require.Len(t, planErrs, 1)
	assert.Equal(t, validation.CodeOption, planErrs[0].Code)
	raw, ok := e.Rejected("plan")
	assert.True(t, ok)
	assert.Equal(t, "platinum", raw)
	view, ok := e.View().Field("plan")
	require.True(t, ok)
	assert.Equal(t, "platinum", view.Input)

	require.NoError(t, e.Set("plan", "pro"))
	assert.Empty(t, e.Errors("plan"))
	_, ok = e.Rejected("plan")
	assert.False(t, ok, "accepted edit clears the rejected input")

	require.NoError(t, e.Set("email", "  "))
	_, ok = e.Value("email")
	assert.False(t, ok, "blank input clears the answer")
}

func TestWithPrefill_Errors(t *testing.T) {
	s := signupSchema(t, false)
	_, err := engine.New(s, engine.WithPrefill(map[string]any{"ghost": "x"}))
	require.ErrorIs(t, err, engine.ErrUnknownField)

	_, err = engine.New(s, engine.WithPrefill(map[string]any{"plan": "platinum"}))
	require.Error(t, err)

	e, err := engine.New(s, engine.WithPrefill(map[string]any{"email": "ada@biz.com"}))
	require.NoError(t, err)
	assert.True(t, e.Visible("company_name"), "prefill drives initial visibility")
}

func TestAnswersReturnsCopy(t *testing.T) {
	e, _ := newEngine(t, false)
	require.NoError(t, e.Set("email", "ada@home.org"))
	snapshot := e.Answers()
	snapshot.Delete("email")
	_, ok := e.Value("email")
	assert.True(t, ok)
}

func TestSetCell(t *testing.T) {
	s, err := schema.New(schema.Schema{
		ID: "grid",
		Sections: []schema.Section{{
			ID: "only",
			Fields: []schema.Field{
				{ID: "slots", Type: schema.FieldTypeGridRadio, Required: true, Rows: []string{"am", "pm"}, Columns: []string{"yes", "no"}},
				{ID: "days", Type: schema.FieldTypeGridCheckbox, Rows: []string{"mon"}, Columns: []string{"a", "b"}},
			},
		}},
	})
	require.NoError(t, err)
	e, err := engine.New(s)
	require.NoError(t, err)

	require.NoError(t, e.SetCell("slots", "am", "yes", true))
	require.NoError(t, e.SetCell("slots", "am", "no", true))
	value, _ := e.Value("slots")
	assert.Equal(t, []string{"no"}, value.Row("am"), "radio grids replace the row's column")

	var verr *validation.ValidationError
	require.ErrorAs(t, e.Submit(context.Background()), &verr)
	assert.Equal(t, []string{"slots"}, verr.FieldIDs())

	require.NoError(t, e.SetCell("days", "mon", "b", true))
	require.NoError(t, e.SetCell("days", "mon", "a", true))
	days, _ := e.Value("days")
	assert.Equal(t, []string{"a", "b"}, days.Row("mon"))

	require.Error(t, e.SetCell("slots", "night", "yes", true))
	require.NoError(t, e.SetCell("slots", "pm", "yes", true))
	require.NoError(t, e.Submit(context.Background()))
}
