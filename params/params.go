// Package params holds the parameter environment supplied to the
// pipeline generator: a mapping from parameter name to value, where a
// value may be explicitly null. Null and unset are equivalent for
// readers; null exists so a params file can switch features off by
// listing a key with no value.
package params

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/puzpuzpuz/xsync/v2"
)

type value struct {
	s    string
	null bool
}

// Environment is a concurrency-safe map of pipeline parameters.
type Environment struct {
	underlying *xsync.MapOf[string, value]
}

func New() *Environment {
	return &Environment{underlying: xsync.NewMapOf[value]()}
}

func FromMap(m map[string]string) *Environment {
	env := &Environment{underlying: xsync.NewMapOfPresized[value](len(m))}

	for k, v := range m {
		env.Set(k, v)
	}

	return env
}

// Split splits a parameter assignment (in the form "name=value") into
// the name and value substrings. If there is no '=', or the first '='
// is at the start, it returns `"", "", false`.
func Split(l string) (name, val string, ok bool) {
	i := strings.IndexRune(l, '=')
	if i <= 0 {
		return "", "", false
	}
	return l[:i], l[i+1:], true
}

// FromSlice creates a new environment from a string slice of KEY=VALUE.
func FromSlice(s []string) *Environment {
	env := New()

	for _, l := range s {
		if k, v, ok := Split(l); ok {
			env.Set(k, v)
		}
	}

	return env
}

// Get returns a parameter value. Null parameters read as unset.
func (e *Environment) Get(key string) (string, bool) {
	v, ok := e.underlying.Load(key)
	if !ok || v.null {
		return "", false
	}
	return v.s, true
}

// GetBool reads a boolean parameter, with a default for unset or
// unrecognized values. Supports true|false, on|off, 1|0.
func (e *Environment) GetBool(key string, defaultValue bool) bool {
	v, _ := e.Get(key)

	switch strings.ToLower(v) {
	case "on", "1", "enabled", "true":
		return true
	case "off", "0", "disabled", "false":
		return false
	default:
		return defaultValue
	}
}

// Exists reports whether the key holds a non-null value.
func (e *Environment) Exists(key string) bool {
	_, ok := e.Get(key)
	return ok
}

// IsNull reports whether the key was explicitly set to null.
func (e *Environment) IsNull(key string) bool {
	v, ok := e.underlying.Load(key)
	return ok && v.null
}

// Set sets a parameter value.
func (e *Environment) Set(key string, val string) string {
	e.underlying.Store(key, value{s: val})
	return val
}

// SetNull records the key as explicitly null.
func (e *Environment) SetNull(key string) {
	e.underlying.Store(key, value{null: true})
}

// Remove deletes a key and returns the value it held.
func (e *Environment) Remove(key string) string {
	v, ok := e.Get(key)
	if ok {
		e.underlying.Delete(key)
	}
	return v
}

// Length returns the number of parameters, nulls included.
func (e *Environment) Length() int {
	return e.underlying.Size()
}

// Merge merges another environment into this one. Null entries in the
// other environment null out entries here.
func (e *Environment) Merge(other *Environment) {
	if other == nil {
		return
	}

	other.underlying.Range(func(k string, v value) bool {
		e.underlying.Store(k, v)
		return true
	})
}

// Copy returns a copy of the environment.
func (e *Environment) Copy() *Environment {
	c := New()

	if e == nil {
		return c
	}

	e.underlying.Range(func(k string, v value) bool {
		c.underlying.Store(k, v)
		return true
	})

	return c
}

// Dump returns the environment as a plain map. Null entries map to nil.
func (e *Environment) Dump() map[string]*string {
	d := make(map[string]*string, e.underlying.Size())
	e.underlying.Range(func(k string, v value) bool {
		if v.null {
			d[k] = nil
		} else {
			s := v.s
			d[k] = &s
		}
		return true
	})

	return d
}

// ToSlice returns a sorted KEY=VALUE representation of the environment.
// Null entries are omitted.
func (e *Environment) ToSlice() []string {
	s := []string{}
	e.underlying.Range(func(k string, v value) bool {
		if !v.null {
			s = append(s, k+"="+v.s)
		}
		return true
	})

	// Consistent order (helpful for tests)
	sort.Strings(s)

	return s
}

// Keys returns the sorted parameter names, nulls included.
func (e *Environment) Keys() []string {
	keys := []string{}
	e.underlying.Range(func(k string, _ value) bool {
		keys = append(keys, k)
		return true
	})

	sort.Strings(keys)

	return keys
}

func (e *Environment) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Dump())
}

func (e *Environment) UnmarshalJSON(data []byte) error {
	var raw map[string]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	e.underlying = xsync.NewMapOfPresized[value](len(raw))
	for k, v := range raw {
		if v == nil {
			e.SetNull(k)
		} else {
			e.Set(k, *v)
		}
	}

	return nil
}
