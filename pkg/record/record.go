package record

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
)

// ErrNullFilterValue is returned when a filter carries a null value.
var ErrNullFilterValue = errors.New("record: filter value is null")

// Record maps field names to typed values. Absent fields read as Null.
type Record map[string]Value

// Get returns the value stored for name, or Null.
func (r Record) Get(name string) Value {
	if r == nil {
		return NullValue()
	}
	return r[name]
}

// Clone returns a shallow copy; Values are immutable so this is a full copy.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for key, value := range r {
		out[key] = value
	}
	return out
}

// Keys returns the field names in lexical order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for key := range r {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ResultSet is the ordered output of one query.
type ResultSet []Record

// Filter maps query keys (teacherId, minAge, ...) to scalar values.
type Filter map[string]Value

// Query translates the filter into query-string parameters. A null value
// fails the whole filter.
func (f Filter) Query() (url.Values, error) {
	values := make(url.Values, len(f))
	keys := make([]string, 0, len(f))
	for key := range f {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value := f[key]
		if value.IsNull() {
			return nil, fmt.Errorf("%w: %s", ErrNullFilterValue, key)
		}
		values.Set(key, value.String())
	}
	return values, nil
}
