package globalization

import (
	"encoding"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

const (
	targetString  = "string"
	targetBoolean = "boolean"
	targetNumber  = "number"
	targetDate    = "date"
)

// TypeConverter coerces values between string, number, boolean and date.
// Text to date and text to number go through the Service with the current
// culture, so conversions agree with what formatting displays.
type TypeConverter struct {
	service *Service
}

func NewTypeConverter(service *Service) *TypeConverter {
	return &TypeConverter{service: service}
}

// ConvertToString returns "" for nil, locale formatted text for dates and the
// value's own text for fmt.Stringer and encoding.TextMarshaler implementations.
func (c *TypeConverter) ConvertToString(value any) (string, error) {
	v := classify(value)
	switch v.kind {
	case valueNull:
		return "", nil
	case valueString:
		return v.text, nil
	case valueNumber:
		return v.text, nil
	case valueBool:
		return strconv.FormatBool(v.flag), nil
	case valueDate:
		return c.service.FormatDate(&v.date, "", nil)
	}

	switch x := value.(type) {
	case fmt.Stringer:
		return x.String(), nil
	case encoding.TextMarshaler:
		text, err := x.MarshalText()
		if err != nil {
			return "", &ConversionError{Value: value, Target: targetString, Err: err}
		}
		return string(text), nil
	}
	return "", &ConversionError{Value: value, Target: targetString}
}

// ConvertToBoolean is true only for the text "true" in any case and for
// non-zero numbers. Every other string, including "1", is false.
func (c *TypeConverter) ConvertToBoolean(value any) (bool, error) {
	v := classify(value)
	switch v.kind {
	case valueNull:
		return false, nil
	case valueString:
		return strings.EqualFold(v.text, "true"), nil
	case valueNumber:
		return v.number != 0 && !math.IsNaN(v.number), nil
	case valueBool:
		return v.flag, nil
	default:
		return false, &ConversionError{Value: value, Target: targetBoolean}
	}
}

// ConvertToNumber returns nil for nil input and milliseconds since the Unix
// epoch for dates.
func (c *TypeConverter) ConvertToNumber(value any) (*float64, error) {
	v := classify(value)
	switch v.kind {
	case valueNull:
		return nil, nil
	case valueString:
		parsed, err := c.service.ParseNumber(&v.text, "", nil)
		if err != nil {
			return nil, &ConversionError{Value: value, Target: targetNumber, Err: err}
		}
		return parsed, nil
	case valueNumber:
		return Ptr(v.number), nil
	case valueBool:
		if v.flag {
			return Ptr(1.0), nil
		}
		return Ptr(0.0), nil
	case valueDate:
		return Ptr(float64(v.date.UnixMilli())), nil
	default:
		return nil, &ConversionError{Value: value, Target: targetNumber}
	}
}

// ConvertToDate parses text with the current culture's default date pattern.
// Numbers and booleans are rejected.
func (c *TypeConverter) ConvertToDate(value any) (*time.Time, error) {
	v := classify(value)
	switch v.kind {
	case valueNull:
		return nil, nil
	case valueString:
		parsed, err := c.service.ParseDate(&v.text, "", nil)
		if err != nil {
			return nil, &ConversionError{Value: value, Target: targetDate, Err: err}
		}
		return parsed, nil
	case valueDate:
		return Ptr(v.date), nil
	default:
		return nil, &ConversionError{Value: value, Target: targetDate}
	}
}

type valueKind int

const (
	valueNull valueKind = iota
	valueString
	valueNumber
	valueBool
	valueDate
	valueOther
)

// classified is a value sorted into one of the converter's kinds.
// text holds the string value or the canonical text of a number.
type classified struct {
	kind   valueKind
	text   string
	number float64
	flag   bool
	date   time.Time
}

func classify(value any) classified {
	switch x := value.(type) {
	case nil:
		return classified{kind: valueNull}
	case string:
		return classified{kind: valueString, text: x}
	case bool:
		return classified{kind: valueBool, flag: x}
	case time.Time:
		return classified{kind: valueDate, date: x}
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return classified{kind: valueString, text: x.String()}
		}
		return classified{kind: valueNumber, number: f, text: x.String()}
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return classified{kind: valueNull}
		}
		return classify(rv.Elem().Interface())
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if rv.IsNil() {
			return classified{kind: valueNull}
		}
	case reflect.String:
		return classified{kind: valueString, text: rv.String()}
	case reflect.Bool:
		return classified{kind: valueBool, flag: rv.Bool()}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		return classified{kind: valueNumber, number: float64(n), text: strconv.FormatInt(n, 10)}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n := rv.Uint()
		return classified{kind: valueNumber, number: float64(n), text: strconv.FormatUint(n, 10)}
	case reflect.Float32:
		f := rv.Float()
		return classified{kind: valueNumber, number: f, text: formatFloatText(f, 32)}
	case reflect.Float64:
		f := rv.Float()
		return classified{kind: valueNumber, number: f, text: formatFloatText(f, 64)}
	}

	return classified{kind: valueOther}
}

func formatFloatText(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	default:
		return strconv.FormatFloat(f, 'f', -1, bits)
	}
}
