/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package tree

import (
	"github.com/NVIDIA/emberplus-go/ber"
	"github.com/NVIDIA/emberplus-go/glow"
)

// Scalar holds one Ember+ parameter value, choosing among the six
// wire-level alternatives spec.md §3 lists for Parameter.value
// (integer/real/string/boolean/octets/null). A nil *Scalar means the
// field was absent from a decoded fragment, distinct from a present
// Null value — this is what lets update() tell "not sent" from "sent
// as null" apart (spec.md §4.C scalar-overwrite rule).
type Scalar struct {
	Type glow.ParameterType
	Int  int64
	Real float64
	Str  string
	Bool bool
	Octets []byte
}

func IntValue(v int64) *Scalar    { return &Scalar{Type: glow.ParameterTypeInteger, Int: v} }
func RealValue(v float64) *Scalar { return &Scalar{Type: glow.ParameterTypeReal, Real: v} }
func StringValue(v string) *Scalar { return &Scalar{Type: glow.ParameterTypeString, Str: v} }
func BoolValue(v bool) *Scalar    { return &Scalar{Type: glow.ParameterTypeBoolean, Bool: v} }
func OctetsValue(v []byte) *Scalar {
	return &Scalar{Type: glow.ParameterTypeOctets, Octets: append([]byte(nil), v...)}
}
func NullValue() *Scalar { return &Scalar{Type: glow.ParameterTypeNone} }

// Equal reports field-by-field equality, used by the merge-idempotence
// and round-trip tests (spec.md §8 laws 1 and 3).
func (v *Scalar) Equal(o *Scalar) bool {
	if v == nil || o == nil {
		return v == o
	}
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case glow.ParameterTypeInteger, glow.ParameterTypeTrigger, glow.ParameterTypeEnum:
		return v.Int == o.Int
	case glow.ParameterTypeReal:
		return v.Real == o.Real
	case glow.ParameterTypeString:
		return v.Str == o.Str
	case glow.ParameterTypeBoolean:
		return v.Bool == o.Bool
	case glow.ParameterTypeOctets:
		return string(v.Octets) == string(o.Octets)
	default:
		return true
	}
}

// Context tags used inside the one-of-six wrapper a Scalar writes
// under its caller-supplied field tag: this package's own wire
// convention for the Ember+ Value CHOICE (there is no single context
// tag that self-describes "this is an integer" vs "this is a real" in
// the base BER layer, so the discriminant lives one level in).
const (
	valueInteger = iota
	valueReal
	valueString
	valueBoolean
	valueOctets
	valueNull
)

// encode writes v (which may be nil, meaning "field absent": the
// caller must skip calling encode in that case) as a constructed value
// under tag, wrapping exactly one discriminated primitive.
func (v *Scalar) encode(w *ber.Writer, tag ber.Tag) {
	w.StartSequence(tag)
	switch v.Type {
	case glow.ParameterTypeInteger, glow.ParameterTypeTrigger, glow.ParameterTypeEnum:
		w.WriteInteger(ber.Context(valueInteger), v.Int)
	case glow.ParameterTypeReal:
		w.WriteReal(ber.Context(valueReal), v.Real)
	case glow.ParameterTypeString:
		w.WriteString(ber.Context(valueString), v.Str)
	case glow.ParameterTypeBoolean:
		w.WriteBoolean(ber.Context(valueBoolean), v.Bool)
	case glow.ParameterTypeOctets:
		w.WriteOctets(ber.Context(valueOctets), v.Octets)
	default:
		w.WriteNull(ber.Context(valueNull))
	}
	w.EndSequence()
}

// decodeScalar reads a Scalar previously written by encode.
func decodeScalar(r *ber.Reader, tag ber.Tag) (*Scalar, error) {
	if err := r.EnterSequence(tag); err != nil {
		return nil, err
	}
	inner, _, err := r.PeekTag()
	if err != nil {
		return nil, err
	}
	var v *Scalar
	switch inner.Number {
	case valueInteger:
		n, err := r.ReadInteger()
		if err != nil {
			return nil, err
		}
		v = IntValue(n)
	case valueReal:
		n, err := r.ReadReal()
		if err != nil {
			return nil, err
		}
		v = RealValue(n)
	case valueString:
		s, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		v = StringValue(s)
	case valueBoolean:
		b, err := r.ReadBoolean()
		if err != nil {
			return nil, err
		}
		v = BoolValue(b)
	case valueOctets:
		b, err := r.ReadOctets()
		if err != nil {
			return nil, err
		}
		v = OctetsValue(b)
	default:
		if err := r.ReadNull(); err != nil {
			return nil, err
		}
		v = NullValue()
	}
	if err := r.ExitSequence(); err != nil {
		return nil, err
	}
	return v, nil
}
