package proto

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophcollect/internal/common"
	"github.com/dmitrijs2005/gophcollect/internal/timex"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrMalformed reports a message field of the wrong shape. It matches
// common.ErrValidation.
var ErrMalformed = fmt.Errorf("%w: malformed message", common.ErrValidation)

// Reader extracts typed values from a Struct message. The first shape
// error is kept and reported by Err; later reads return zero values.
type Reader struct {
	fields map[string]*structpb.Value
	err    error
}

func NewReader(s *structpb.Struct) *Reader {
	r := &Reader{}
	if s != nil {
		r.fields = s.GetFields()
	}
	return r
}

func (r *Reader) Err() error { return r.err }

func (r *Reader) fail(key, want string) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: %q must be %s", ErrMalformed, key, want)
	}
}

// Has reports whether key is present, null or not.
func (r *Reader) Has(key string) bool {
	_, ok := r.fields[key]
	return ok
}

// IsNull reports whether key is present with a null value.
func (r *Reader) IsNull(key string) bool {
	v, ok := r.fields[key]
	return ok && isNull(v)
}

func isNull(v *structpb.Value) bool {
	_, ok := v.GetKind().(*structpb.Value_NullValue)
	return ok || v.GetKind() == nil
}

func (r *Reader) value(key string) (*structpb.Value, bool) {
	v, ok := r.fields[key]
	if !ok || isNull(v) {
		return nil, false
	}
	return v, true
}

func (r *Reader) String(key string) string {
	v, ok := r.value(key)
	if !ok {
		return ""
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		r.fail(key, "a string")
		return ""
	}
	return s.StringValue
}

func (r *Reader) Bytes(key string) []byte {
	s := r.String(key)
	if s == "" {
		return nil
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		r.fail(key, "base64")
		return nil
	}
	return b
}

// Float returns nil when key is absent or null.
func (r *Reader) Float(key string) *float64 {
	v, ok := r.value(key)
	if !ok {
		return nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		r.fail(key, "a number")
		return nil
	}
	f := n.NumberValue
	return &f
}

func (r *Reader) Bool(key string) bool {
	v, ok := r.value(key)
	if !ok {
		return false
	}
	b, ok := v.GetKind().(*structpb.Value_BoolValue)
	if !ok {
		r.fail(key, "a bool")
		return false
	}
	return b.BoolValue
}

// Date returns nil when key is absent, null or empty.
func (r *Reader) Date(key string) *time.Time {
	s := r.String(key)
	if s == "" {
		return nil
	}
	t, err := timex.ParseDate(s)
	if err != nil {
		r.fail(key, "a YYYY-MM-DD date")
		return nil
	}
	return &t
}

func (r *Reader) Time(key string) time.Time {
	s := r.String(key)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		r.fail(key, "an RFC 3339 timestamp")
		return time.Time{}
	}
	return t
}

// Struct returns the nested message at key, or nil.
func (r *Reader) Struct(key string) *structpb.Struct {
	v, ok := r.value(key)
	if !ok {
		return nil
	}
	s, ok := v.GetKind().(*structpb.Value_StructValue)
	if !ok {
		r.fail(key, "an object")
		return nil
	}
	return s.StructValue
}

// List returns the nested messages of the list at key.
func (r *Reader) List(key string) []*structpb.Struct {
	v, ok := r.value(key)
	if !ok {
		return nil
	}
	l, ok := v.GetKind().(*structpb.Value_ListValue)
	if !ok {
		r.fail(key, "a list")
		return nil
	}
	out := make([]*structpb.Struct, 0, len(l.ListValue.GetValues()))
	for _, item := range l.ListValue.GetValues() {
		s, ok := item.GetKind().(*structpb.Value_StructValue)
		if !ok {
			r.fail(key, "a list of objects")
			return nil
		}
		out = append(out, s.StructValue)
	}
	return out
}

// Builder assembles a Struct message.
type Builder struct {
	fields map[string]*structpb.Value
}

func NewBuilder() *Builder {
	return &Builder{fields: map[string]*structpb.Value{}}
}

func (b *Builder) Build() *structpb.Struct {
	return &structpb.Struct{Fields: b.fields}
}

func (b *Builder) String(key, v string) *Builder {
	b.fields[key] = structpb.NewStringValue(v)
	return b
}

// OptString skips empty strings.
func (b *Builder) OptString(key, v string) *Builder {
	if v != "" {
		b.String(key, v)
	}
	return b
}

func (b *Builder) Bytes(key string, v []byte) *Builder {
	return b.String(key, base64.StdEncoding.EncodeToString(v))
}

func (b *Builder) Bool(key string, v bool) *Builder {
	b.fields[key] = structpb.NewBoolValue(v)
	return b
}

func (b *Builder) Number(key string, v float64) *Builder {
	b.fields[key] = structpb.NewNumberValue(v)
	return b
}

// Float writes null for a nil pointer.
func (b *Builder) Float(key string, v *float64) *Builder {
	if v == nil {
		return b.Null(key)
	}
	return b.Number(key, *v)
}

// Date writes null for a nil pointer.
func (b *Builder) Date(key string, v *time.Time) *Builder {
	if v == nil {
		return b.Null(key)
	}
	return b.String(key, timex.FormatDate(*v))
}

func (b *Builder) Time(key string, v time.Time) *Builder {
	if v.IsZero() {
		return b
	}
	return b.String(key, v.UTC().Format(time.RFC3339Nano))
}

func (b *Builder) Null(key string) *Builder {
	b.fields[key] = structpb.NewNullValue()
	return b
}

func (b *Builder) Struct(key string, v *structpb.Struct) *Builder {
	b.fields[key] = structpb.NewStructValue(v)
	return b
}

func (b *Builder) List(key string, items []*structpb.Struct) *Builder {
	values := make([]*structpb.Value, 0, len(items))
	for _, item := range items {
		values = append(values, structpb.NewStructValue(item))
	}
	b.fields[key] = structpb.NewListValue(&structpb.ListValue{Values: values})
	return b
}
