package handlers

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

type FieldError struct {
	Field string
	Msg   string
}

type Validator struct {
	field string
	value *string
}

func (rv *Validator) Required() *FieldError {
	if rv.value == nil {
		return &FieldError{Field: rv.field, Msg: "is required"}
	}

	return nil
}

func (rv *Validator) Empty() *FieldError {
	if utf8.RuneCountInString(*rv.value) == 0 {
		return &FieldError{Field: rv.field, Msg: "cannot be blank"}
	}

	return nil
}

func (rv *Validator) MinLength(min int) *FieldError {
	if utf8.RuneCountInString(*rv.value) < min {
		return &FieldError{Field: rv.field, Msg: fmt.Sprintf("must be at least %d characters long", min)}
	}

	return nil
}

func (rv *Validator) MaxLength(max int) *FieldError {
	if utf8.RuneCountInString(*rv.value) > max {
		return &FieldError{Field: rv.field, Msg: fmt.Sprintf("must be at most %d characters long", max)}
	}

	return nil
}

func (rv *Validator) Matches(regexpStr string) *FieldError {
	// todo cache for compiled regexps
	r, _ := regexp.Compile(regexpStr)
	if !r.MatchString(*rv.value) {
		return &FieldError{Field: rv.field, Msg: "contains invalid characters"}
	}

	return nil
}

func (rv *Validator) Custom(validate func(string) bool, msg string) *FieldError {
	if !validate(*rv.value) {
		return &FieldError{Field: rv.field, Msg: msg}
	}

	return nil
}

func mergeErrors(validations ...*FieldError) []*FieldError {
	result := make([]*FieldError, 0, 2)

	for _, err := range validations {
		if err == nil {
			continue
		}

		result = append(result, err)
	}

	return result
}
