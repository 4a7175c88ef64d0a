package variation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// InfoNumber is the declared cardinality of an INFO field.
type InfoNumber string

const (
	NumberOne     InfoNumber = "1"
	NumberA       InfoNumber = "A"
	NumberR       InfoNumber = "R"
	NumberG       InfoNumber = "G"
	NumberUnknown InfoNumber = "."
)

// InfoType is the declared value type of an INFO field.
type InfoType string

const (
	TypeString  InfoType = "String"
	TypeFloat   InfoType = "Float"
	TypeInteger InfoType = "Integer"
	TypeFlag    InfoType = "Flag"
)

var ErrFlagValue = errors.New("value of a flag INFO field must be a bool")

// InfoField is a single INFO annotation on a variant. Value is a scalar when
// Number is NumberOne and a slice otherwise. Build fields with NewInfoField so
// that a flag always carries a bool.
type InfoField struct {
	Name   string
	Value  interface{}
	Number InfoNumber
	Flag   bool
}

func NewInfoField(name string, value interface{}, number InfoNumber, flag bool) (InfoField, error) {
	if _, isBool := value.(bool); flag && !isBool {
		return InfoField{}, fmt.Errorf("%s: %w", name, ErrFlagValue)
	}

	return InfoField{
		Name:   name,
		Value:  value,
		Number: number,
		Flag:   flag,
	}, nil
}

// String renders the field as it appears in the INFO column. A false flag
// renders as the empty string and is left out of the column.
func (f InfoField) String() string {
	if f.Flag {
		if set, _ := f.Value.(bool); set {
			return f.Name
		}
		return ""
	}

	if f.Number == NumberOne {
		return fmt.Sprintf("%s=%v", f.Name, f.Value)
	}

	return f.Name + "=" + joinValues(f.Value)
}

func joinValues(value interface{}) string {
	v := reflect.ValueOf(value)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return fmt.Sprint(value)
	}

	parts := make([]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		parts = append(parts, fmt.Sprint(v.Index(i).Interface()))
	}

	return strings.Join(parts, ",")
}
