package model

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("record")
	})
}

// MissingFieldsError names the required fields that were absent or null
type MissingFieldsError struct {
	Category Category
	Fields   []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("%v record contained the following null attributes: %v", e.Category, e.Fields)
}

// MalformedFieldError is a field whose value could not be coerced
type MalformedFieldError struct {
	Category Category
	Field    string
	Value    interface{}
}

func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("%v record field %q has malformed value %v", e.Category, e.Field, e.Value)
}

// IsExcluded reports whether err only disqualifies a single record
func IsExcluded(err error) bool {
	var missing *MissingFieldsError
	var malformed *MalformedFieldError
	return errors.As(err, &missing) || errors.As(err, &malformed)
}

// Decode coerces a record into dst, a pointer to one of the record
// structs, then validates its required fields.
func Decode(c Category, r Record, dst interface{}) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decode %v: destination must be a struct pointer", c)
	}
	v = v.Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Tag.Get("record")
		if name == "" {
			continue
		}
		raw, ok := r[name]
		if !ok || raw == nil {
			continue
		}
		field := v.Field(i)
		if err := assign(field, raw); err != nil {
			return &MalformedFieldError{c, name, raw}
		}
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		sort.Strings(fields)
		return &MissingFieldsError{c, fields}
	}
	return nil
}

func assign(field reflect.Value, raw interface{}) error {
	elem := field.Type().Elem()
	p := reflect.New(elem)
	switch elem.Kind() {
	case reflect.String:
		s, err := toString(raw)
		if err != nil {
			return err
		}
		p.Elem().SetString(s)
	case reflect.Int:
		f, err := toFloat(raw)
		if err != nil {
			return err
		}
		p.Elem().SetInt(int64(f))
	case reflect.Float64:
		f, err := toFloat(raw)
		if err != nil {
			return err
		}
		p.Elem().SetFloat(f)
	case reflect.Bool:
		b, err := toBool(raw)
		if err != nil {
			return err
		}
		p.Elem().SetBool(b)
	default:
		return fmt.Errorf("unsupported field kind %v", elem.Kind())
	}
	field.Set(p)
	return nil
}

func toString(raw interface{}) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case float64, float32, int, int32, int64, bool:
		return fmt.Sprint(v), nil
	}
	return "", fmt.Errorf("not a string: %T", raw)
}

func toFloat(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	}
	return 0, fmt.Errorf("not a number: %T", raw)
}

func toBool(raw interface{}) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		return strings.ToUpper(strings.TrimSpace(v)) == "TRUE", nil
	}
	return false, fmt.Errorf("not a bool: %T", raw)
}
