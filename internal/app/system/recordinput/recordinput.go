// Package recordinput turns submitted text fields into a ModuleRecord.
//
// All fields arrive as strings (from the HTML form, a CSV row or the CLI).
// Parse trims and normalizes them, coerces the numeric fields and validates
// the result against the group rule table. Nothing reaches the store unless
// every field passes.
package recordinput

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dalemusser/modulecredits/internal/app/system/htmlsanitize"
	"github.com/dalemusser/modulecredits/internal/app/system/inputval"
	"github.com/dalemusser/modulecredits/internal/domain/models"
)

// Field names, shared by the HTML form, CSV header and JSON output.
const (
	FieldDate               = "date"
	FieldModuleName         = "module_name"
	FieldModuleGroup        = "module_group"
	FieldCompulsoryElective = "compulsory_elective"
	FieldSemester           = "semester"
	FieldAcquiredPoints     = "acquired_points"
)

// FieldOrder is the canonical column order.
var FieldOrder = []string{
	FieldDate,
	FieldModuleName,
	FieldModuleGroup,
	FieldCompulsoryElective,
	FieldSemester,
	FieldAcquiredPoints,
}

// Form holds the raw submitted values.
type Form struct {
	Date               string
	ModuleName         string
	ModuleGroup        string
	CompulsoryElective string
	Semester           string
	AcquiredPoints     string
}

// FormFromValues reads a Form from posted form values.
func FormFromValues(v url.Values) Form {
	return Form{
		Date:               v.Get(FieldDate),
		ModuleName:         v.Get(FieldModuleName),
		ModuleGroup:        v.Get(FieldModuleGroup),
		CompulsoryElective: v.Get(FieldCompulsoryElective),
		Semester:           v.Get(FieldSemester),
		AcquiredPoints:     v.Get(FieldAcquiredPoints),
	}
}

// FieldError is a single failing field.
type FieldError = inputval.FieldError

// ValidationError lists every field that failed to parse or validate.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		parts = append(parts, fe.Message)
	}
	return "invalid module record: " + strings.Join(parts, "; ")
}

// FieldMap maps field name to message for template lookups.
func (e *ValidationError) FieldMap() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, fe := range e.Fields {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Message
		}
	}
	return out
}

// submission is the normalized form checked by inputval. Date, name and
// semester are free beyond coercion; only lengths are capped.
type submission struct {
	Date               string `form:"date" validate:"max=32"`
	ModuleName         string `form:"module_name" validate:"max=200"`
	ModuleGroup        string `form:"module_group" validate:"required,max=16"`
	CompulsoryElective string `form:"compulsory_elective" validate:"required,category"`
	Semester           int    `form:"semester"`
	AcquiredPoints     int    `form:"acquired_points" validate:"gte=0"`
}

// Parse normalizes f and validates it against rules. On failure the error
// is a *ValidationError.
func Parse(f Form, rules models.GroupRules) (models.ModuleRecord, error) {
	s := submission{
		Date:               plainText(f.Date),
		ModuleName:         plainText(f.ModuleName),
		ModuleGroup:        inputval.NormalizeCode(f.ModuleGroup),
		CompulsoryElective: inputval.NormalizeCode(f.CompulsoryElective),
	}

	var coerced []FieldError
	var err error
	if s.Semester, err = atoi(f.Semester); err != nil {
		coerced = append(coerced, FieldError{Field: FieldSemester, Message: FieldSemester + " must be a whole number"})
	}
	if s.AcquiredPoints, err = atoi(f.AcquiredPoints); err != nil {
		coerced = append(coerced, FieldError{Field: FieldAcquiredPoints, Message: FieldAcquiredPoints + " must be a whole number"})
	}

	res := inputval.Validate(s)

	var out []FieldError
	for _, fe := range res.Errors {
		if hasField(coerced, fe.Field) {
			continue
		}
		out = append(out, fe)
	}
	out = append(out, coerced...)

	if s.ModuleGroup != "" && !hasField(out, FieldModuleGroup) && !rules.Known(s.ModuleGroup) {
		out = append(out, FieldError{
			Field:   FieldModuleGroup,
			Message: fmt.Sprintf("%s must be one of %s", FieldModuleGroup, strings.Join(rules.Groups(), ", ")),
		})
	}

	if len(out) > 0 {
		return models.ModuleRecord{}, &ValidationError{Fields: sortFields(out)}
	}

	return models.ModuleRecord{
		Date:               s.Date,
		ModuleName:         s.ModuleName,
		ModuleGroup:        s.ModuleGroup,
		CompulsoryElective: s.CompulsoryElective,
		Semester:           s.Semester,
		AcquiredPoints:     s.AcquiredPoints,
	}, nil
}

// plainText trims s and strips markup when it contains any.
func plainText(s string) string {
	if htmlsanitize.IsPlainText(s) {
		return strings.TrimSpace(s)
	}
	return htmlsanitize.StripTags(s)
}

func atoi(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func hasField(errs []FieldError, field string) bool {
	for _, fe := range errs {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// sortFields orders errors by FieldOrder, keeping relative order within a field.
func sortFields(errs []FieldError) []FieldError {
	out := make([]FieldError, 0, len(errs))
	for _, name := range FieldOrder {
		for _, fe := range errs {
			if fe.Field == name {
				out = append(out, fe)
			}
		}
	}
	for _, fe := range errs {
		if !hasField(out, fe.Field) {
			out = append(out, fe)
		}
	}
	return out
}
