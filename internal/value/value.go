// Package value implements the tagged Value union and the variable
// registry that backs Weave's variable storage, expression substitution,
// and command argument passing.
package value

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind discriminates the payload a Value carries.
type Kind int

const (
	// Unit is the registry-internal "no value" kind; it is never produced
	// by user-facing operations but backs absent lookups.
	Unit Kind = iota
	Int
	Double
	Bool
	String
	List
	Object
	Pointer
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "Wint"
	case Double:
		return "Wdouble"
	case Bool:
		return "Wbool"
	case String:
		return "Wstring"
	case List:
		return "Wlist"
	case Object:
		return "Wobject"
	case Pointer:
		return "Wpointer"
	default:
		return "Wunit"
	}
}

// KindFromTypeName maps the surface type names used by setValue's `type`
// argument ("Wstring", "Wint", "Wdouble", "Wbool") to a Kind.
func KindFromTypeName(name string) (Kind, bool) {
	switch strings.ToLower(name) {
	case "wint":
		return Int, true
	case "wdouble":
		return Double, true
	case "wbool":
		return Bool, true
	case "wstring":
		return String, true
	default:
		return Unit, false
	}
}

// Range locates a compound value's children inside the registry's
// secondary indexed store.
type Range struct {
	Start  int
	Length int
}

// Value is the tagged union carried by the registry, by expressions, and
// by command arguments. Reading the payload for the wrong Kind reports
// absence rather than coercing silently.
type Value struct {
	Kind      Kind
	IntVal    int64
	DoubleVal float64
	BoolVal   bool
	StringVal string
	ListRange Range
	ObjRange  Range
	PtrTarget string
	Attribute string
}

func NewInt(v int64) Value         { return Value{Kind: Int, IntVal: v} }
func NewDouble(v float64) Value    { return Value{Kind: Double, DoubleVal: v} }
func NewBool(v bool) Value         { return Value{Kind: Bool, BoolVal: v} }
func NewString(v string) Value     { return Value{Kind: String, StringVal: v} }
func NewPointer(target string) Value { return Value{Kind: Pointer, PtrTarget: target} }

// AsInt returns the integer payload, or (0, false) if Kind != Int.
func (v Value) AsInt() (int64, bool) {
	if v.Kind != Int {
		return 0, false
	}
	return v.IntVal, true
}

// AsDouble returns the double payload, or (0, false) if Kind != Double.
func (v Value) AsDouble() (float64, bool) {
	if v.Kind != Double {
		return 0, false
	}
	return v.DoubleVal, true
}

// AsBool returns the bool payload, or (false, false) if Kind != Bool.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != Bool {
		return false, false
	}
	return v.BoolVal, true
}

// AsString returns the string payload, or ("", false) if Kind != String.
func (v Value) AsString() (string, bool) {
	if v.Kind != String {
		return "", false
	}
	return v.StringVal, true
}

// IsNumeric reports whether v can be read as a number (Int, Double, or
// Bool represented as 0/1).
func (v Value) IsNumeric() bool {
	switch v.Kind {
	case Int, Double, Bool:
		return true
	default:
		return false
	}
}

// Numeric returns v coerced to float64: Bool reads as 0/1, Int/Double
// read directly. Ok is false for non-numeric kinds.
func (v Value) Numeric() (float64, bool) {
	switch v.Kind {
	case Int:
		return float64(v.IntVal), true
	case Double:
		return v.DoubleVal, true
	case Bool:
		if v.BoolVal {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Truthy coerces v to a boolean: Bool→self, Int→≠0, Double→≠0.0,
// String→non-empty. Compound and Unit kinds are always false.
func (v Value) Truthy() bool {
	switch v.Kind {
	case Bool:
		return v.BoolVal
	case Int:
		return v.IntVal != 0
	case Double:
		return v.DoubleVal != 0
	case String:
		return v.StringVal != ""
	default:
		return false
	}
}

// CanonicalText renders v the way ReplaceVariables substitutes it into
// expression text: numbers as canonical decimal (invariant-culture, i.e.
// '.' decimal point, no grouping), bool as 1/0, strings as-is.
func (v Value) CanonicalText() string {
	switch v.Kind {
	case Int:
		return strconv.FormatInt(v.IntVal, 10)
	case Double:
		return strconv.FormatFloat(v.DoubleVal, 'f', -1, 64)
	case Bool:
		if v.BoolVal {
			return "1"
		}
		return "0"
	case String:
		return v.StringVal
	default:
		return ""
	}
}

// DisplayText renders v the way getValue/memory print it to the user:
// like CanonicalText but with Bool spelled True/False for readability.
func (v Value) DisplayText() string {
	if v.Kind == Bool {
		if v.BoolVal {
			return "True"
		}
		return "False"
	}
	return v.CanonicalText()
}

// header is the registry-internal record for a key: either a scalar
// Value directly, or (for List/Object) a Kind plus a Range into store.
type header struct {
	value Value
}

// Registry is the typed variable store. Lookups are case-insensitive;
// the key as stored is case-preserving.
type Registry struct {
	order   []string          // insertion order of canonical (lowercased) keys
	byLower map[string]string // lowercased key -> as-stored key
	data    map[string]header  // lowercased key -> header
	store   []Value            // secondary indexed store for compound children
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byLower: make(map[string]string),
		data:    make(map[string]header),
	}
}

func norm(key string) string { return strings.ToLower(key) }

// Set stores value under key, replacing any prior value for that key
// (case-insensitively), and is O(1) amortised for a new key.
func (r *Registry) Set(key string, v Value) {
	lk := norm(key)
	if _, exists := r.data[lk]; !exists {
		r.order = append(r.order, lk)
	}
	r.byLower[lk] = key
	r.data[lk] = header{value: v}
}

// GetTyped returns the raw Value and its Kind for key. Compound kinds
// (List, Object) are reported absent here; use GetList/GetObject.
func (r *Registry) GetTyped(key string) (Value, Kind, bool) {
	h, ok := r.data[norm(key)]
	if !ok {
		return Value{}, Unit, false
	}
	if h.value.Kind == List || h.value.Kind == Object {
		return Value{}, Unit, false
	}
	return h.value, h.value.Kind, true
}

// GetInt returns the Int value stored at key.
func (r *Registry) GetInt(key string) (int64, bool) {
	v, k, ok := r.GetTyped(key)
	if !ok || k != Int {
		return 0, false
	}
	return v.IntVal, true
}

// GetDouble returns the Double value stored at key.
func (r *Registry) GetDouble(key string) (float64, bool) {
	v, k, ok := r.GetTyped(key)
	if !ok || k != Double {
		return 0, false
	}
	return v.DoubleVal, true
}

// GetBool returns the Bool value stored at key.
func (r *Registry) GetBool(key string) (bool, bool) {
	v, k, ok := r.GetTyped(key)
	if !ok || k != Bool {
		return false, false
	}
	return v.BoolVal, true
}

// GetString returns the String value stored at key.
func (r *Registry) GetString(key string) (string, bool) {
	v, k, ok := r.GetTyped(key)
	if !ok || k != String {
		return "", false
	}
	return v.StringVal, true
}

// GetPointer returns the raw Value and Kind at key without resolving it,
// mirroring GetTyped's shape for Pointer-kind entries.
func (r *Registry) GetPointer(key string) (Value, Kind, bool) {
	h, ok := r.data[norm(key)]
	if !ok || h.value.Kind != Pointer {
		return Value{}, Unit, false
	}
	return h.value, h.value.Kind, true
}

// maxPointerDepth bounds pointer-chasing so a cycle cannot hang Deref.
const maxPointerDepth = 8

// Deref follows a Pointer's target chain up to maxPointerDepth hops and
// returns the final non-pointer Value. A cycle or dangling target
// reports absence.
func (r *Registry) Deref(key string) (Value, Kind, bool) {
	cur := key
	for depth := 0; depth < maxPointerDepth; depth++ {
		h, ok := r.data[norm(cur)]
		if !ok {
			return Value{}, Unit, false
		}
		if h.value.Kind != Pointer {
			return h.value, h.value.Kind, true
		}
		cur = h.value.PtrTarget
	}
	return Value{}, Unit, false
}

// SetList stores a compound List header at key and populates its
// children in the secondary store.
func (r *Registry) SetList(key string, elems []Value) {
	start := len(r.store)
	r.store = append(r.store, elems...)
	rng := Range{Start: start, Length: len(elems)}
	lk := norm(key)
	if _, exists := r.data[lk]; !exists {
		r.order = append(r.order, lk)
	}
	r.byLower[lk] = key
	r.data[lk] = header{value: Value{Kind: List, ListRange: rng}}
}

// GetList returns the children of the List stored at key.
func (r *Registry) GetList(key string) ([]Value, bool) {
	h, ok := r.data[norm(key)]
	if !ok || h.value.Kind != List {
		return nil, false
	}
	rng := h.value.ListRange
	return r.store[rng.Start : rng.Start+rng.Length], true
}

// SetObject stores a compound Object header at key; each field carries
// its name in Value.Attribute.
func (r *Registry) SetObject(key string, fields []Value) {
	start := len(r.store)
	r.store = append(r.store, fields...)
	rng := Range{Start: start, Length: len(fields)}
	lk := norm(key)
	if _, exists := r.data[lk]; !exists {
		r.order = append(r.order, lk)
	}
	r.byLower[lk] = key
	r.data[lk] = header{value: Value{Kind: Object, ObjRange: rng}}
}

// GetObject returns the fields of the Object stored at key.
func (r *Registry) GetObject(key string) ([]Value, bool) {
	h, ok := r.data[norm(key)]
	if !ok || h.value.Kind != Object {
		return nil, false
	}
	rng := h.value.ObjRange
	return r.store[rng.Start : rng.Start+rng.Length], true
}

// Remove deletes key (case-insensitively) so it is no longer visible to
// any lookup, including GetList/GetObject for a compound header: once
// the header is gone, its Range is unreachable and the child Values it
// pointed at in store are never returned again. The slice itself is not
// compacted — store is append-only and a Range is a plain index into
// it, so shrinking store would require rewriting every other header's
// Range. Orphaned children sit as unreachable garbage until ClearAll
// resets the whole registry. Removing an unknown key returns false.
func (r *Registry) Remove(key string) bool {
	lk := norm(key)
	if _, ok := r.data[lk]; !ok {
		return false
	}
	delete(r.data, lk)
	delete(r.byLower, lk)
	for i, k := range r.order {
		if k == lk {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// ClearAll empties the registry and its secondary store atomically.
func (r *Registry) ClearAll() {
	r.order = nil
	r.byLower = make(map[string]string)
	r.data = make(map[string]header)
	r.store = nil
}

// Len reports the number of top-level keys currently stored.
func (r *Registry) Len() int { return len(r.order) }

// IsNumeric reports whether the scalar value at key is numeric
// (Int/Double/Bool).
func (r *Registry) IsNumeric(key string) bool {
	v, _, ok := r.GetTyped(key)
	return ok && v.IsNumeric()
}

// Dump pretty-prints every stored variable in insertion order, for the
// `memory()` built-in and `--verbose` debugging.
func (r *Registry) Dump() string {
	if len(r.order) == 0 {
		return "(empty)"
	}
	var sb strings.Builder
	for _, lk := range r.order {
		name := r.byLower[lk]
		h := r.data[lk]
		fmt.Fprintf(&sb, "%s (%s) = %s\n", name, h.value.Kind, h.value.DisplayText())
	}
	return sb.String()
}

// isWordByte reports whether b can appear inside an identifier; it is
// used to match whole identifier tokens in expr (not a substring inside
// a longer identifier).
func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// ReplaceVariables substitutes every occurrence of a registered variable
// name in expr with its CanonicalText, matching whole tokens only and
// case-insensitively.
func (r *Registry) ReplaceVariables(expr string) string {
	if len(r.order) == 0 {
		return expr
	}
	// Replace longest names first so "xy" doesn't eat the "xy" inside "xyz".
	names := make([]string, 0, len(r.order))
	for _, lk := range r.order {
		names = append(names, r.byLower[lk])
	}
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	var sb strings.Builder
	i := 0
	for i < len(expr) {
		matched := false
		atWordStart := i == 0 || !isWordByte(expr[i-1])
		if atWordStart && isIdentStart(expr[i]) {
			for _, name := range names {
				n := len(name)
				if i+n > len(expr) {
					continue
				}
				if !strings.EqualFold(expr[i:i+n], name) {
					continue
				}
				if i+n < len(expr) && isWordByte(expr[i+n]) {
					continue
				}
				v, _, ok := r.GetTyped(name)
				if !ok {
					continue
				}
				sb.WriteString(v.CanonicalText())
				i += n
				matched = true
				break
			}
		}
		if !matched {
			sb.WriteByte(expr[i])
			i++
		}
	}
	return sb.String()
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
