// Package validation interprets declarative per-operation rule tables.
//
// A Schema is an ordered list of Field rules. Validate never stops at the first
// violation: every broken rule contributes exactly one message. Keys that are
// not declared are dropped from the normalised output at every nesting level.
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/projecthub/tracker-api/internal/core/domain"
)

// Kind is the expected JSON type of a field.
type Kind int

const (
	String Kind = iota
	Number
	Bool
	Date
	Object
	Array
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "boolean"
	case Date:
		return "valid date"
	case Object:
		return "object"
	case Array:
		return "array"
	}
	return "unknown"
}

// Rule identifies one check of a Field; it keys custom messages.
type Rule string

const (
	RuleRequired Rule = "required"
	RuleType     Rule = "type"
	RuleEmpty    Rule = "empty"
	RuleMin      Rule = "min"
	RuleMax      Rule = "max"
	RulePattern  Rule = "pattern"
	RuleFormat   Rule = "format"
	RuleEnum     Rule = "enum"
	RuleRef      Rule = "ref"
)

// Matcher is satisfied by *regexp.Regexp and MatcherFunc.
type Matcher interface {
	MatchString(s string) bool
}

// MatcherFunc adapts a plain predicate to Matcher, for checks RE2 cannot express.
type MatcherFunc func(string) bool

func (f MatcherFunc) MatchString(s string) bool { return f(s) }

// Field declares the rules for one key of an object.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	Trim     bool
	Lower    bool
	// AllowEmpty accepts "" as a value and skips the remaining string rules.
	AllowEmpty bool
	// Default is applied when the key is absent. Slices and maps are not allowed.
	Default any
	// Min and Max bound string length (runes) or numeric value.
	Min *float64
	Max *float64
	// Pattern applies to strings after trimming.
	Pattern Matcher
	// Format is a go-playground/validator tag such as "email" or "alphanum".
	Format string
	Enum   []string
	// MinRef names a sibling date or number field this one may not be lower than.
	MinRef string
	// Fields describes the keys of an Object.
	Fields []Field
	// Items describes every element of an Array. Items.Name is ignored.
	Items    *Field
	Messages map[Rule]string
}

// Schema is an ordered rule table for one operation.
type Schema struct {
	Name   string
	Fields []Field
}

// Limit returns a pointer for Field.Min and Field.Max.
func Limit(n float64) *float64 {
	return &n
}

var formats = validator.New()

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Validate checks input against s and returns the normalised value, or a
// *domain.ValidationError listing every violation.
func (s Schema) Validate(input map[string]any) (map[string]any, error) {
	if input == nil {
		input = map[string]any{}
	}
	v := &run{}
	out := v.object(s.Fields, input, "")
	if len(v.errs) > 0 {
		return nil, &domain.ValidationError{Errors: v.errs}
	}
	return out, nil
}

// Decode validates input and materialises the normalised value into out, which
// must be a pointer to a struct whose json tags match the schema keys.
func Decode(s Schema, input map[string]any, out any) error {
	value, err := s.Validate(input)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: encode normalised value: %w", s.Name, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode normalised value: %w", s.Name, err)
	}
	return nil
}

type run struct {
	errs []string
}

func (r *run) fail(f *Field, rule Rule, path string, fallback string, args ...any) {
	if msg, ok := f.Messages[rule]; ok {
		r.errs = append(r.errs, msg)
		return
	}
	r.errs = append(r.errs, fmt.Sprintf("%q "+fallback, append([]any{path}, args...)...))
}

func (r *run) object(fields []Field, in map[string]any, prefix string) map[string]any {
	out := make(map[string]any, len(fields))
	for i := range fields {
		f := &fields[i]
		path := joinPath(prefix, f.Name)
		raw, present := in[f.Name]
		if !present || raw == nil {
			if f.Required {
				r.fail(f, RuleRequired, path, "is required")
			} else if f.Default != nil {
				out[f.Name] = f.Default
			}
			continue
		}
		if v, ok := r.value(f, raw, path); ok {
			out[f.Name] = v
		}
	}

	for i := range fields {
		f := &fields[i]
		if f.MinRef == "" {
			continue
		}
		cur, ok1 := out[f.Name]
		ref, ok2 := out[f.MinRef]
		if !ok1 || !ok2 {
			continue
		}
		if less(cur, ref) {
			r.fail(f, RuleRef, joinPath(prefix, f.Name), "must be greater than or equal to %q", joinPath(prefix, f.MinRef))
		}
	}
	return out
}

func (r *run) value(f *Field, raw any, path string) (any, bool) {
	switch f.Kind {
	case String:
		return r.str(f, raw, path)
	case Number:
		return r.number(f, raw, path)
	case Bool:
		return r.boolean(f, raw, path)
	case Date:
		return r.date(f, raw, path)
	case Object:
		m, ok := raw.(map[string]any)
		if !ok {
			r.fail(f, RuleType, path, "must be of type object")
			return nil, false
		}
		before := len(r.errs)
		out := r.object(f.Fields, m, path)
		return out, len(r.errs) == before
	case Array:
		return r.array(f, raw, path)
	}
	return nil, false
}

func (r *run) str(f *Field, raw any, path string) (any, bool) {
	s, ok := raw.(string)
	if !ok {
		r.fail(f, RuleType, path, "must be a string")
		return nil, false
	}
	if f.Trim {
		s = strings.TrimSpace(s)
	}
	if f.Lower {
		s = strings.ToLower(s)
	}
	if s == "" && f.AllowEmpty {
		return s, true
	}
	if s == "" {
		if _, ok := f.Messages[RuleEmpty]; !ok && f.Required {
			r.fail(f, RuleRequired, path, "is required")
		} else {
			r.fail(f, RuleEmpty, path, "is not allowed to be empty")
		}
		return nil, false
	}

	before := len(r.errs)
	n := float64(utf8.RuneCountInString(s))
	if f.Min != nil && n < *f.Min {
		r.fail(f, RuleMin, path, "length must be at least %v characters long", *f.Min)
	}
	if f.Max != nil && n > *f.Max {
		r.fail(f, RuleMax, path, "length must be less than or equal to %v characters long", *f.Max)
	}
	if f.Format != "" && formats.Var(s, f.Format) != nil {
		r.fail(f, RuleFormat, path, "must be a valid %s", f.Format)
	}
	if f.Pattern != nil && !f.Pattern.MatchString(s) {
		r.fail(f, RulePattern, path, "with value %q fails to match the required pattern", s)
	}
	if len(f.Enum) > 0 && !contains(f.Enum, s) {
		r.fail(f, RuleEnum, path, "must be one of [%s]", strings.Join(f.Enum, ", "))
	}
	return s, len(r.errs) == before
}

func (r *run) number(f *Field, raw any, path string) (any, bool) {
	var n float64
	switch v := raw.(type) {
	case float64:
		n = v
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			r.fail(f, RuleType, path, "must be a number")
			return nil, false
		}
		n = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			r.fail(f, RuleType, path, "must be a number")
			return nil, false
		}
		n = parsed
	default:
		r.fail(f, RuleType, path, "must be a number")
		return nil, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		r.fail(f, RuleType, path, "must be a number")
		return nil, false
	}

	before := len(r.errs)
	if f.Min != nil && n < *f.Min {
		r.fail(f, RuleMin, path, "must be greater than or equal to %v", *f.Min)
	}
	if f.Max != nil && n > *f.Max {
		r.fail(f, RuleMax, path, "must be less than or equal to %v", *f.Max)
	}
	return n, len(r.errs) == before
}

func (r *run) boolean(f *Field, raw any, path string) (any, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	r.fail(f, RuleType, path, "must be a boolean")
	return nil, false
}

func (r *run) date(f *Field, raw any, path string) (any, bool) {
	switch v := raw.(type) {
	case time.Time:
		return v.UTC(), true
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), true
			}
		}
		r.fail(f, RuleFormat, path, "must be in ISO 8601 date format")
		return nil, false
	}
	r.fail(f, RuleType, path, "must be a valid date")
	return nil, false
}

func (r *run) array(f *Field, raw any, path string) (any, bool) {
	items, ok := raw.([]any)
	if !ok {
		r.fail(f, RuleType, path, "must be an array")
		return nil, false
	}
	out := make([]any, 0, len(items))
	if f.Items == nil {
		return append(out, items...), true
	}

	before := len(r.errs)
	for i, item := range items {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		if item == nil {
			r.fail(f.Items, RuleType, itemPath, "must be a %s", f.Items.Kind)
			continue
		}
		if v, ok := r.value(f.Items, item, itemPath); ok {
			out = append(out, v)
		}
	}
	return out, len(r.errs) == before
}

func less(a, b any) bool {
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Before(bv)
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return av < bv
		}
	}
	return false
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
