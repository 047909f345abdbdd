package sobject_test

import (
	"errors"
	"testing"

	sobject "github.com/reoring/sobject"
)

func issueWithCode(issues sobject.Issues, code string) (sobject.Issue, bool) {
	for _, issue := range issues {
		if issue.Code == code {
			return issue, true
		}
	}
	return sobject.Issue{}, false
}

func TestValidateMissingRequired(t *testing.T) {
	class := newAccountClass(t)
	o, err := sobject.NewObject(class, map[string]any{"age": int64(3)})
	if err != nil {
		t.Fatalf("NewObject: %v", err)
	}

	err = sobject.Validate(o)
	if err == nil {
		t.Fatal("expected a validation error for the missing required property")
	}
	var ve *sobject.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error is %T, want *sobject.ValidationError", err)
	}
	issue, ok := issueWithCode(ve.Issues, sobject.CodeRequired)
	if !ok {
		t.Fatalf("no required issue in %v", ve.Issues)
	}
	if issue.Path != "/name" {
		t.Errorf("issue path = %q, want /name", issue.Path)
	}

	if err := o.Set("name", "alice"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := sobject.Validate(o); err != nil {
		t.Fatalf("Validate after supplying the property: %v", err)
	}
}

func TestValidateReportsEveryIssueAtOnce(t *testing.T) {
	class := sobject.NewObjectClass("Strict", nil)
	meta := sobject.NewObjectMeta()
	meta.Properties.Set("a", sobject.NewStringProperty(sobject.PropertySpec{Required: true}))
	meta.Properties.Set("b", sobject.NewStringProperty(sobject.PropertySpec{Required: true}))
	if err := class.SetMeta(meta); err != nil {
		t.Fatalf("SetMeta: %v", err)
	}
	o, err := sobject.NewObject(class, map[string]any{"stray": int64(1)})
	if err != nil {
		t.Fatalf("NewObject: %v", err)
	}

	issues, err := sobject.ValidationIssues(o)
	if err != nil {
		t.Fatalf("ValidationIssues: %v", err)
	}
	if len(issues) != 3 {
		t.Fatalf("issues = %d (%v), want two required plus one extraneous", len(issues), issues)
	}
	if _, ok := issueWithCode(issues, sobject.CodeExtraAttribute); !ok {
		t.Fatalf("no extra-attribute issue in %v", issues)
	}
}

func TestValidateNullNotAllowed(t *testing.T) {
	class := sobject.NewObjectClass("NullCheck", nil)
	meta := sobject.NewObjectMeta()
	meta.Properties.Set("strict", sobject.NewProperty(sobject.PropertySpec{
		Types: sobject.NewTypes(sobject.KindString),
	}))
	meta.Properties.Set("lax", sobject.NewProperty(sobject.PropertySpec{
		Types: sobject.NewTypes(sobject.Null, sobject.KindString),
	}))
	if err := class.SetMeta(meta); err != nil {
		t.Fatalf("SetMeta: %v", err)
	}
	o, err := sobject.NewObject(class, nil)
	if err != nil {
		t.Fatalf("NewObject: %v", err)
	}
	if err := o.Set("lax", sobject.Null); err != nil {
		t.Fatalf("Set lax: %v", err)
	}
	// A Null under a property that excludes it cannot arrive through Set, so
	// plant it by widening the instance metadata first.
	widened := o.WritableMeta().(*sobject.ObjectMeta)
	widened.Properties.Set("strict", sobject.NewProperty(sobject.PropertySpec{
		Types: sobject.NewTypes(sobject.Null, sobject.KindString),
	}))
	if err := o.Set("strict", sobject.Null); err != nil {
		t.Fatalf("Set strict: %v", err)
	}
	widened.Properties.Set("strict", sobject.NewProperty(sobject.PropertySpec{
		Types: sobject.NewTypes(sobject.KindString),
	}))

	issues, err := sobject.ValidationIssues(o)
	if err != nil {
		t.Fatalf("ValidationIssues: %v", err)
	}
	issue, ok := issueWithCode(issues, sobject.CodeNullNotAllowed)
	if !ok {
		t.Fatalf("no null-not-allowed issue in %v", issues)
	}
	if issue.Path != "/strict" {
		t.Errorf("issue path = %q, want /strict", issue.Path)
	}
}

func TestValidatePlainValueAgainstTypes(t *testing.T) {
	if err := sobject.Validate(int64(3),
		sobject.WithTypes(sobject.NewTypes(sobject.KindInteger))); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	err := sobject.Validate("three",
		sobject.WithTypes(sobject.NewTypes(sobject.KindInteger)))
	if err == nil {
		t.Fatal("expected a validation error")
	}
	issues, ok := sobject.AsIssues(err)
	if !ok || len(issues) != 1 || issues[0].Code != sobject.CodeInvalidType {
		t.Fatalf("issues = %v", issues)
	}
}

func TestValidateArrayItems(t *testing.T) {
	a, err := sobject.NewArray(nil, []any{"ok", int64(1)})
	if err != nil {
		t.Fatalf("NewArray: %v", err)
	}
	meta := a.WritableMeta().(*sobject.ArrayMeta)
	meta.ItemTypes = sobject.NewTypes(sobject.KindString)

	issues, err := sobject.ValidationIssues(a)
	if err != nil {
		t.Fatalf("ValidationIssues: %v", err)
	}
	if len(issues) != 1 {
		t.Fatalf("issues = %v, want one for the integer item", issues)
	}
	if issues[0].Path != "/1" {
		t.Errorf("issue path = %q, want /1", issues[0].Path)
	}
}

func TestValidateRecursesIntoNestedModels(t *testing.T) {
	inner := sobject.NewObjectClass("Inner", nil)
	innerMeta := sobject.NewObjectMeta()
	innerMeta.Properties.Set("id", sobject.NewStringProperty(sobject.PropertySpec{Required: true}))
	if err := inner.SetMeta(innerMeta); err != nil {
		t.Fatalf("SetMeta: %v", err)
	}
	outer := sobject.NewObjectClass("Outer", nil)
	outerMeta := sobject.NewObjectMeta()
	outerMeta.Properties.Set("inner", sobject.NewProperty(sobject.PropertySpec{
		Types: sobject.NewTypes(inner),
	}))
	if err := outer.SetMeta(outerMeta); err != nil {
		t.Fatalf("SetMeta: %v", err)
	}

	o, err := sobject.NewObject(outer, map[string]any{
		"inner": map[string]any{},
	})
	if err != nil {
		t.Fatalf("NewObject: %v", err)
	}
	issues, err := sobject.ValidationIssues(o)
	if err != nil {
		t.Fatalf("ValidationIssues: %v", err)
	}
	issue, ok := issueWithCode(issues, sobject.CodeRequired)
	if !ok {
		t.Fatalf("no required issue in %v", issues)
	}
	if issue.Path != "/inner/id" {
		t.Errorf("issue path = %q, want /inner/id", issue.Path)
	}
}

func TestValidateHookErrorPropagates(t *testing.T) {
	class := sobject.NewObjectClass("VHooked", nil)
	if err := class.SetMeta(sobject.NewObjectMeta()); err != nil {
		t.Fatalf("SetMeta: %v", err)
	}
	hooks := class.WritableHooks().(*sobject.ObjectHooks)
	hookErr := errors.New("refused")
	hooks.AfterValidate = func(m sobject.Model) error { return hookErr }

	o, err := sobject.NewObject(class, nil)
	if err != nil {
		t.Fatalf("NewObject: %v", err)
	}
	if err := sobject.Validate(o); !errors.Is(err, hookErr) {
		t.Fatalf("err = %v, want the hook's error unmodified", err)
	}
}
