package descriptor

import "fmt"

// Field looks up a named field on a struct value. Implicit-Some means a
// present field IS the value (there is no wrapping `Some(...)` the decoder
// must peel beyond the variant-newtype rule below); an absent field is
// reported via ok=false so callers can apply their own default.
func (v Value) Field(name string) (Value, bool) {
	f, ok := v.Fields[name]
	return f, ok
}

// Unwrap peels a single newtype/variant-newtype layer: a struct or variant
// with exactly one positional item returns that item; anything else
// returns v unchanged. This implements RON's newtype and variant-newtype
// unwrapping (e.g. `Fixed(1920, 1080)` stays a 2-tuple, but `Some(5)` or a
// single-field wrapper like `Ratio(0.5)` unwraps to the inner value).
func (v Value) Unwrap() Value {
	if v.Kind == KindStruct && len(v.Fields) == 0 && len(v.Items) == 1 {
		return v.Items[0]
	}
	return v
}

func (v Value) AsString() (string, error) {
	if v.Kind != KindString {
		return "", fmt.Errorf("descriptor: expected string, got kind %d", v.Kind)
	}
	return v.Str, nil
}

func (v Value) AsFloat32() (float32, error) {
	if v.Kind != KindNumber {
		return 0, fmt.Errorf("descriptor: expected number, got kind %d", v.Kind)
	}
	return float32(v.Num), nil
}

func (v Value) AsUint32() (uint32, error) {
	if v.Kind != KindNumber {
		return 0, fmt.Errorf("descriptor: expected number, got kind %d", v.Kind)
	}
	return uint32(v.Num), nil
}

func (v Value) AsBool() (bool, error) {
	if v.Kind != KindBool {
		return false, fmt.Errorf("descriptor: expected bool, got kind %d", v.Kind)
	}
	return v.Bool, nil
}

// AsSeq returns a sequence's items, or a struct's positional items (so a
// caller can treat `[a, b]` and `(a, b)` uniformly where the grammar
// allows either).
func (v Value) AsSeq() []Value {
	if v.Kind == KindSeq || v.Kind == KindStruct {
		return v.Items
	}
	return nil
}

// Map returns a `{...}` map literal's entries, or nil if v isn't a map.
func (v Value) Map() map[string]Value {
	if v.Kind != KindMap {
		return nil
	}
	return v.Fields
}

// VariantName returns the tag of a bare variant or a struct (newtype
// variant), for dispatching on Run/Step/ImageInner/etc. tagged unions.
func (v Value) VariantName() string {
	if v.Kind == KindVariant || v.Kind == KindStruct {
		return v.Name
	}
	return ""
}

// FieldFloat32 looks up a named float field, defaulting if absent.
func (v Value) FieldFloat32(name string, def float32) float32 {
	f, ok := v.Field(name)
	if !ok {
		return def
	}
	r, err := f.AsFloat32()
	if err != nil {
		return def
	}
	return r
}

// FieldString looks up a named string field, defaulting if absent.
func (v Value) FieldString(name, def string) string {
	f, ok := v.Field(name)
	if !ok {
		return def
	}
	r, err := f.AsString()
	if err != nil {
		return def
	}
	return r
}

// FieldBool looks up a named bool field, defaulting if absent.
func (v Value) FieldBool(name string, def bool) bool {
	f, ok := v.Field(name)
	if !ok {
		return def
	}
	r, err := f.AsBool()
	if err != nil {
		return def
	}
	return r
}
