package probes

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/bartekus/featureprobe/internal/runner"
)

type utilsNamespace struct {
	PI float64
}

// Square returns n*n.
func (utilsNamespace) Square(n float64) float64 { return n * n }

// Utils groups a constant and a function under one name.
var Utils = utilsNamespace{PI: 3.14159}

func namespaceProbe() runner.Probe {
	return runner.Probe{
		Name:    "namespace:utils",
		Doc:     "namespaced constant and function",
		Action:  func(context.Context) (any, error) { return Utils.Square(4) * Utils.PI, nil },
		Expect:  50.26544,
		Compare: runner.Equal(cmpopts.EquateApprox(0, 1e-9)),
	}
}

// PersonRecord is the data shape of a Person.
type PersonRecord struct {
	ID   int
	Name string
	Age  *int
}

func (p PersonRecord) String() string {
	age := "unset"
	if p.Age != nil {
		age = strconv.Itoa(*p.Age)
	}
	return fmt.Sprintf("{ID:%d Name:%s Age:%s}", p.ID, p.Name, age)
}

// OptionsFlags maps every field of T to a boolean, true for the enabled ones.
func OptionsFlags[T any](enabled ...string) map[string]bool {
	on := make(map[string]bool, len(enabled))
	for _, name := range enabled {
		on[name] = true
	}
	typ := reflect.TypeOf((*T)(nil)).Elem()
	flags := make(map[string]bool, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.IsExported() {
			flags[f.Name] = on[f.Name]
		}
	}
	return flags
}

func mappedProbe() runner.Probe {
	return runner.Probe{
		Name: "mapped:options-flags",
		Doc:  "{ [K in keyof T]: boolean }",
		Action: func(context.Context) (any, error) {
			return OptionsFlags[PersonRecord]("Name"), nil
		},
		Expect: map[string]bool{"ID": false, "Name": true, "Age": false},
	}
}

// IsString reports whether T is string: T extends string ? true : false.
func IsString[T any]() bool {
	var zero T
	_, ok := any(zero).(string)
	return ok
}

func conditionalProbe() runner.Probe {
	return runner.Probe{
		Name: "conditional:is-string",
		Doc:  "conditional type selection",
		Action: func(context.Context) (any, error) {
			return []bool{IsString[string](), IsString[float64]()}, nil
		},
		Expect: []bool{true, false},
	}
}

// PartialPerson is Partial<PersonRecord>: every field optional.
type PartialPerson struct {
	ID   *int
	Name *string
	Age  *int
}

// Apply overlays the set fields of p onto base.
func (p PartialPerson) Apply(base PersonRecord) PersonRecord {
	if p.ID != nil {
		base.ID = *p.ID
	}
	if p.Name != nil {
		base.Name = *p.Name
	}
	if p.Age != nil {
		base.Age = p.Age
	}
	return base
}

var errMissingField = errors.New("required field missing")

// Required is Required<PersonRecord>: it fails unless every field is set.
func (p PartialPerson) Required() (PersonRecord, error) {
	if p.ID == nil || p.Name == nil || p.Age == nil {
		return PersonRecord{}, errMissingField
	}
	return PersonRecord{ID: *p.ID, Name: *p.Name, Age: p.Age}, nil
}

// PickedPerson is Pick<PersonRecord, "ID" | "Name">.
type PickedPerson struct {
	ID   int
	Name string
}

// Pick keeps ID and Name.
func Pick(p PersonRecord) PickedPerson {
	return PickedPerson{ID: p.ID, Name: p.Name}
}

// UtilityReport is what the utility-type probe observes.
type UtilityReport struct {
	Merged          PersonRecord
	Picked          PickedPerson
	RequiredMissing bool
}

func ptr[T any](v T) *T { return &v }

func utilityProbe() runner.Probe {
	return runner.Probe{
		Name: "utility:partial-pick",
		Doc:  "Partial, Required and Pick",
		Action: func(context.Context) (any, error) {
			patch := PartialPerson{Age: ptr(31)}
			merged := patch.Apply(PersonRecord{ID: 1, Name: "Alice"})
			_, err := patch.Required()
			return UtilityReport{
				Merged:          merged,
				Picked:          Pick(merged),
				RequiredMissing: errors.Is(err, errMissingField),
			}, nil
		},
		Expect: UtilityReport{
			Merged:          PersonRecord{ID: 1, Name: "Alice", Age: ptr(31)},
			Picked:          PickedPerson{ID: 1, Name: "Alice"},
			RequiredMissing: true,
		},
	}
}
