package handlers

import "testing"

func TestValidator(t *testing.T) {
	value := "test_value"
	v := &Validator{field: "test_field", value: &value}

	if err := v.Required(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := v.Empty(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := v.MaxLength(10); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := v.MinLength(20); err == nil {
		t.Errorf("expected error but was nil")
	}
	if err := v.Matches("^[a-z_]+$"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := v.Custom(func(string) bool { return false }, "nope"); err == nil {
		t.Errorf("expected error but was nil")
	}

	var missing *string
	if err := (&Validator{field: "missing", value: missing}).Required(); err == nil {
		t.Errorf("expected error but was nil")
	}

	merged := mergeErrors(nil, &FieldError{Field: "a", Msg: "b"}, nil)
	if len(merged) != 1 {
		t.Errorf("expected 1 error but was %d", len(merged))
	}
}
