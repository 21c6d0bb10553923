package ir

import (
	"regexp"
	"strconv"
)

// ValueKind tags an annotation value.
type ValueKind int

const (
	ValueNumber ValueKind = iota
	ValueText
	ValueBool
)

func (k ValueKind) String() string {
	switch k {
	case ValueNumber:
		return "number"
	case ValueText:
		return "string"
	case ValueBool:
		return "boolean"
	}
	return "unknown"
}

// Value is an annotation literal: a number, a string or a boolean.
type Value struct {
	Kind   ValueKind
	Number float64
	Text   string
	Bool   bool
	// Raw is the literal as written in the schema.
	Raw string
}

func NumberValue(raw string) (Value, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Value{}, err
	}
	return Value{Kind: ValueNumber, Number: f, Raw: raw}, nil
}

func TextValue(s string) Value { return Value{Kind: ValueText, Text: s, Raw: strconv.Quote(s)} }

func BoolValue(b bool) Value { return Value{Kind: ValueBool, Bool: b, Raw: strconv.FormatBool(b)} }

// Annotation names.
const (
	AnnPattern          = "pattern"
	AnnMinLength        = "minLength"
	AnnMaxLength        = "maxLength"
	AnnMinimum          = "minimum"
	AnnMaximum          = "maximum"
	AnnExclusiveMinimum = "exclusiveMinimum"
	AnnExclusiveMaximum = "exclusiveMaximum"
	AnnMinItems         = "minItems"
	AnnMaxItems         = "maxItems"
	AnnMinProperties    = "minProperties"
	AnnMaxProperties    = "maxProperties"
)

// Target is the pattern family an annotation may decorate.
type Target int

const (
	TargetNone Target = iota
	TargetString
	TargetNumeric
	TargetArray
	TargetObject
)

func (t Target) String() string {
	switch t {
	case TargetString:
		return "string"
	case TargetNumeric:
		return "numeric"
	case TargetArray:
		return "array"
	case TargetObject:
		return "object"
	}
	return "untyped"
}

// AnnotationTarget reports which family accepts the annotation name; ok is
// false for unknown names.
func AnnotationTarget(name string) (Target, bool) {
	switch name {
	case AnnPattern, AnnMinLength, AnnMaxLength:
		return TargetString, true
	case AnnMinimum, AnnMaximum, AnnExclusiveMinimum, AnnExclusiveMaximum:
		return TargetNumeric, true
	case AnnMinItems, AnnMaxItems:
		return TargetArray, true
	case AnnMinProperties, AnnMaxProperties:
		return TargetObject, true
	}
	return TargetNone, false
}

// IsCount reports whether the annotation takes a non-negative integer.
func IsCount(name string) bool {
	switch name {
	case AnnMinLength, AnnMaxLength, AnnMinItems, AnnMaxItems, AnnMinProperties, AnnMaxProperties:
		return true
	}
	return false
}

// Annotation is one `name=value` entry.
type Annotation struct {
	Name  string
	Value Value
	Pos   Pos
}

// Annotations keep declaration order. The compiled pattern regex, if any, is
// stored alongside.
type Annotations struct {
	List    []Annotation
	Pattern *regexp.Regexp
}

// Empty reports whether no annotation is present.
func (a Annotations) Empty() bool { return len(a.List) == 0 }

// Get returns the annotation with the given name.
func (a Annotations) Get(name string) (Annotation, bool) {
	for _, an := range a.List {
		if an.Name == name {
			return an, true
		}
	}
	return Annotation{}, false
}

// Number returns a numeric annotation value.
func (a Annotations) Number(name string) (float64, bool) {
	an, ok := a.Get(name)
	if !ok || an.Value.Kind != ValueNumber {
		return 0, false
	}
	return an.Value.Number, true
}

// Count returns an integer annotation value.
func (a Annotations) Count(name string) (int, bool) {
	f, ok := a.Number(name)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// TargetOf returns the annotation family a pattern kind accepts. Refs and
// unions accept none directly; refs are checked against their target.
func TargetOf(p Pattern) Target {
	switch n := p.(type) {
	case *Primitive:
		switch {
		case n.Type == TypeString:
			return TargetString
		case n.IsNumeric():
			return TargetNumeric
		}
	case *Regex:
		return TargetString
	case *Array:
		return TargetArray
	case *Object:
		return TargetObject
	}
	return TargetNone
}
