package logger

import (
	"time"

	"go.uber.org/zap"
)

// Field represents a structured log field.
type Field interface {
	Key() string
	Value() interface{}
	// ZapField returns the underlying zap.Field for efficient conversion
	ZapField() zap.Field
}

// ZapField wraps a zap.Field and implements the Field interface
type zapField struct {
	field zap.Field
}

func (f zapField) Key() string { return f.field.Key }

func (f zapField) Value() interface{} { return f.field.Interface }

func (f zapField) ZapField() zap.Field { return f.field }

// String creates a string field
func String(key, value string) Field {
	return zapField{field: zap.String(key, value)}
}

// Strings creates a string-slice field
func Strings(key string, values []string) Field {
	return zapField{field: zap.Strings(key, values)}
}

// Int creates an int field
func Int(key string, value int) Field {
	return zapField{field: zap.Int(key, value)}
}

// Int64 creates an int64 field
func Int64(key string, value int64) Field {
	return zapField{field: zap.Int64(key, value)}
}

// Float64 creates a float64 field
func Float64(key string, value float64) Field {
	return zapField{field: zap.Float64(key, value)}
}

// Bool creates a bool field
func Bool(key string, value bool) Field {
	return zapField{field: zap.Bool(key, value)}
}

// Duration creates a duration field
func Duration(key string, value time.Duration) Field {
	return zapField{field: zap.Duration(key, value)}
}

// Time creates a time field
func Time(key string, value time.Time) Field {
	return zapField{field: zap.Time(key, value)}
}

// Any creates a field from an arbitrary value
func Any(key string, value interface{}) Field {
	return zapField{field: zap.Any(key, value)}
}

// Error creates an error field
func Error(err error) Field {
	return zapField{field: zap.Error(err)}
}

// NamedError creates an error field with a custom key
func NamedError(key string, err error) Field {
	return zapField{field: zap.NamedError(key, err)}
}
