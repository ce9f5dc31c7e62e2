// Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
package ber_test

import (
	"math"
	"testing"

	"github.com/NVIDIA/emberplus-go/ber"
)

func TestIntegerRoundTrip(t *testing.T) {
	vals := []int64{0, 1, -1, 127, 128, -128, -129, 255, 256, -256,
		math.MaxInt32, math.MinInt32, math.MaxInt64, math.MinInt64}
	for _, v := range vals {
		w := ber.NewWriter(8)
		w.WriteInteger(ber.Context(0), v)
		r := ber.NewReader(w.Bytes())
		got, err := r.ReadInteger()
		if err != nil {
			t.Fatalf("v=%d: %v", v, err)
		}
		if got != v {
			t.Fatalf("v=%d: got %d", v, got)
		}
		if !r.AtEnd() {
			t.Fatalf("v=%d: reader not at end", v)
		}
	}
}

func TestRealRoundTrip(t *testing.T) {
	vals := []float64{0, 1, -1, 0.5, 3.14159, -2.71828, 1e10, -1e-10,
		math.Inf(1), math.Inf(-1), math.NaN(), math.Copysign(0, -1)}
	for _, v := range vals {
		w := ber.NewWriter(8)
		w.WriteReal(ber.Context(1), v)
		r := ber.NewReader(w.Bytes())
		got, err := r.ReadReal()
		if err != nil {
			t.Fatalf("v=%v: %v", v, err)
		}
		if math.IsNaN(v) {
			if !math.IsNaN(got) {
				t.Fatalf("v=NaN: got %v", got)
			}
			continue
		}
		if got != v || math.Signbit(got) != math.Signbit(v) {
			t.Fatalf("v=%v: got %v", v, got)
		}
	}
}

func TestStringAndOctetsRoundTrip(t *testing.T) {
	w := ber.NewWriter(8)
	w.WriteString(ber.Context(0), "hello, ember+")
	w.WriteOctets(ber.Context(1), []byte{0xde, 0xad, 0xbe, 0xef})

	r := ber.NewReader(w.Bytes())
	s, err := r.ReadString()
	if err != nil || s != "hello, ember+" {
		t.Fatalf("ReadString() = %q, %v", s, err)
	}
	b, err := r.ReadOctets()
	if err != nil || string(b) != "\xde\xad\xbe\xef" {
		t.Fatalf("ReadOctets() = %x, %v", b, err)
	}
}

func TestBooleanAndNullRoundTrip(t *testing.T) {
	w := ber.NewWriter(8)
	w.WriteBoolean(ber.Context(0), true)
	w.WriteBoolean(ber.Context(1), false)
	w.WriteNull(ber.Context(2))

	r := ber.NewReader(w.Bytes())
	if v, err := r.ReadBoolean(); err != nil || !v {
		t.Fatalf("ReadBoolean() = %v, %v", v, err)
	}
	if v, err := r.ReadBoolean(); err != nil || v {
		t.Fatalf("ReadBoolean() = %v, %v", v, err)
	}
	if err := r.ReadNull(); err != nil {
		t.Fatalf("ReadNull() = %v", err)
	}
}

func TestRelativeOIDRoundTrip(t *testing.T) {
	arcs := []uint64{1, 3, 2, 0, 127, 128, 16384}
	w := ber.NewWriter(8)
	w.WriteRelativeOID(ber.Context(0), arcs)
	r := ber.NewReader(w.Bytes())
	got, err := r.ReadRelativeOID()
	if err != nil {
		t.Fatalf("ReadRelativeOID() = %v", err)
	}
	if len(got) != len(arcs) {
		t.Fatalf("got %v, want %v", got, arcs)
	}
	for i := range arcs {
		if got[i] != arcs[i] {
			t.Fatalf("got %v, want %v", got, arcs)
		}
	}
}

// TestSequenceRoundTrip exercises StartSequence/EndSequence and their
// reader counterparts, including a nested sequence, matching the
// "sequences may be written indefinite-length" contract from spec.md §4.A.
func TestSequenceRoundTrip(t *testing.T) {
	seq := ber.Application(3) // Node
	inner := ber.Context(1)

	w := ber.NewWriter(32)
	w.StartSequence(seq)
	w.WriteInteger(ber.Context(0), 7)
	w.StartSequence(inner)
	w.WriteString(ber.Context(0), "child")
	w.EndSequence()
	w.EndSequence()

	r := ber.NewReader(w.Bytes())
	if err := r.EnterSequence(seq); err != nil {
		t.Fatalf("EnterSequence: %v", err)
	}
	n, err := r.ReadInteger()
	if err != nil || n != 7 {
		t.Fatalf("ReadInteger() = %d, %v", n, err)
	}
	if err := r.EnterSequence(inner); err != nil {
		t.Fatalf("EnterSequence(inner): %v", err)
	}
	s, err := r.ReadString()
	if err != nil || s != "child" {
		t.Fatalf("ReadString() = %q, %v", s, err)
	}
	if !r.AtEnd() {
		t.Fatal("expected inner sequence to be at end")
	}
	if err := r.ExitSequence(); err != nil {
		t.Fatalf("ExitSequence(inner): %v", err)
	}
	if !r.AtEnd() {
		t.Fatal("expected outer sequence to be at end")
	}
	if err := r.ExitSequence(); err != nil {
		t.Fatalf("ExitSequence(outer): %v", err)
	}
}

// TestUnexpectedTag exercises the UnexpectedTag decode failure from
// spec.md §4.A's reader contract.
func TestUnexpectedTag(t *testing.T) {
	w := ber.NewWriter(8)
	w.StartSequence(ber.Application(3))
	w.EndSequence()

	r := ber.NewReader(w.Bytes())
	err := r.EnterSequence(ber.Application(1))
	if _, ok := err.(*ber.ErrUnexpectedTag); !ok {
		t.Fatalf("want ErrUnexpectedTag, got %v (%T)", err, err)
	}
}

// TestTruncatedInput exercises truncation detection.
func TestTruncatedInput(t *testing.T) {
	w := ber.NewWriter(8)
	w.WriteInteger(ber.Context(0), 300)
	buf := w.Bytes()
	r := ber.NewReader(buf[:len(buf)-1])
	if _, err := r.ReadInteger(); err == nil {
		t.Fatal("expected a truncated-input error")
	}
}

// TestStreamDescriptionShape is the concrete scenario from spec.md §8:
// encode StreamDescription{format: Int32BE, offset: 42} and check the
// byte shape is exactly what a peer would expect.
func TestStreamDescriptionShape(t *testing.T) {
	const tagStreamDescription = 12 // see glow.TagStreamDescription
	const formatInt32BE = 4

	w := ber.NewWriter(16)
	w.StartSequence(ber.Application(tagStreamDescription))
	w.WriteInteger(ber.Context(0), formatInt32BE)
	w.WriteInteger(ber.Context(1), 42)
	w.EndSequence()

	buf := w.Bytes()
	tag, constructed, err := ber.NewReader(buf).PeekTag()
	if err != nil {
		t.Fatal(err)
	}
	if !constructed || tag != ber.Application(tagStreamDescription) {
		t.Fatalf("unexpected outer tag %v constructed=%v", tag, constructed)
	}

	r := ber.NewReader(buf)
	if err := r.EnterSequence(ber.Application(tagStreamDescription)); err != nil {
		t.Fatal(err)
	}
	format, err := r.ReadInteger()
	if err != nil || format != formatInt32BE {
		t.Fatalf("format = %d, %v", format, err)
	}
	offset, err := r.ReadInteger()
	if err != nil || offset != 42 {
		t.Fatalf("offset = %d, %v", offset, err)
	}
	if err := r.ExitSequence(); err != nil {
		t.Fatal(err)
	}
}
