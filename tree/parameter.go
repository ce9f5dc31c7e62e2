/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package tree

import (
	"github.com/NVIDIA/emberplus-go/ber"
	"github.com/NVIDIA/emberplus-go/glow"
)

// StreamDescription is the concrete example structure from spec.md §4.A:
// a sample format and the byte offset of that sample inside a
// multiplexed stream packet.
type StreamDescription struct {
	Format glow.StreamFormat
	Offset int32
}

func (s *StreamDescription) Encode(w *ber.Writer) {
	w.StartSequence(glow.Tag(glow.TagStreamDescription))
	w.WriteInteger(ber.Context(0), int64(s.Format))
	w.WriteInteger(ber.Context(1), int64(s.Offset))
	w.EndSequence()
}

func decodeStreamDescription(r *ber.Reader) (*StreamDescription, error) {
	if err := r.EnterSequence(glow.Tag(glow.TagStreamDescription)); err != nil {
		return nil, err
	}
	format, err := r.ReadInteger()
	if err != nil {
		return nil, err
	}
	offset, err := r.ReadInteger()
	if err != nil {
		return nil, err
	}
	if err := r.ExitSequence(); err != nil {
		return nil, err
	}
	return &StreamDescription{Format: glow.StreamFormat(format), Offset: int32(offset)}, nil
}

// Command is an informational element that may appear as a Parameter's
// optional child (spec.md §3), reporting which commands the peer
// accepts for that node; it carries no payload beyond the command
// number itself.
type Command struct {
	Number glow.CommandNumber
}

func (c *Command) Encode(w *ber.Writer) {
	w.StartSequence(glow.Tag(glow.TagCommand))
	w.StartSequence(ber.Context(0))
	w.WriteInteger(ber.Context(0), int64(c.Number))
	w.EndSequence()
	w.EndSequence()
}

func decodeCommand(r *ber.Reader) (*Command, error) {
	if err := r.EnterSequence(glow.Tag(glow.TagCommand)); err != nil {
		return nil, err
	}
	if err := r.EnterSequence(ber.Context(0)); err != nil {
		return nil, err
	}
	n, err := r.ReadInteger()
	if err != nil {
		return nil, err
	}
	if err := r.ExitSequence(); err != nil {
		return nil, err
	}
	if err := r.ExitSequence(); err != nil {
		return nil, err
	}
	return &Command{Number: glow.CommandNumber(n)}, nil
}

// Parameter is the scalar leaf element (spec.md §3).
type Parameter struct {
	Element

	Value   *Scalar
	Minimum *Scalar
	Maximum *Scalar
	Default *Scalar
	Step    *Scalar

	Access      glow.ParameterAccess
	Format      string
	Enumeration []string
	Formula     string
	Type        glow.ParameterType

	StreamIdentifier *int32
	StreamDescriptor *StreamDescription
	// StreamValue holds a stream sample for this parameter (SPEC_FULL.md
	// §7 stream supplement). It is never sent to the peer, and nothing in
	// this package or the session writes it: StreamCollection messages
	// are not routed into the tree.
	StreamValue *Scalar

	SupportedCommand *Command
}

func NewParameter(number int, identifier string) *Parameter {
	return &Parameter{Element: Element{number: number, identifier: identifier}}
}

func (p *Parameter) Kind() Kind { return KindParameter }

func (p *Parameter) mergeScalars(src Elem) {
	o, ok := src.(*Parameter)
	if !ok {
		return
	}
	if o.identifier != "" {
		p.identifier = o.identifier
	}
	if o.description != "" {
		p.description = o.description
	}
	if o.Value != nil {
		p.Value = o.Value
	}
	if o.Minimum != nil {
		p.Minimum = o.Minimum
	}
	if o.Maximum != nil {
		p.Maximum = o.Maximum
	}
	if o.Default != nil {
		p.Default = o.Default
	}
	if o.Step != nil {
		p.Step = o.Step
	}
	if o.Access != glow.AccessNone {
		p.Access = o.Access
	}
	if o.Format != "" {
		p.Format = o.Format
	}
	if o.Enumeration != nil {
		p.Enumeration = o.Enumeration
	}
	if o.Formula != "" {
		p.Formula = o.Formula
	}
	if o.Type != glow.ParameterTypeNone {
		p.Type = o.Type
	}
	if o.StreamIdentifier != nil {
		p.StreamIdentifier = o.StreamIdentifier
	}
	if o.StreamDescriptor != nil {
		p.StreamDescriptor = o.StreamDescriptor
	}
	if o.SupportedCommand != nil {
		p.SupportedCommand = o.SupportedCommand
	}
}

// context tags for Parameter contents, following the field order
// spec.md §3 lists.
const (
	paramIdentifier = iota
	paramDescription
	paramValue
	paramMinimum
	paramMaximum
	paramAccess
	paramFormat
	paramEnumeration
	paramFormula
	paramStep
	paramDefault
	paramType
	paramStreamIdentifier
	paramStreamDescriptor
	paramSchemaIdentifiers // unused by Parameter; decoded contents under this tag are skipped
)

func (p *Parameter) encodeContents(w *ber.Writer) {
	w.StartSequence(ber.Context(1))
	if p.identifier != "" {
		w.WriteString(ber.Context(paramIdentifier), p.identifier)
	}
	if p.description != "" {
		w.WriteString(ber.Context(paramDescription), p.description)
	}
	if p.Value != nil {
		p.Value.encode(w, ber.Context(paramValue))
	}
	if p.Minimum != nil {
		p.Minimum.encode(w, ber.Context(paramMinimum))
	}
	if p.Maximum != nil {
		p.Maximum.encode(w, ber.Context(paramMaximum))
	}
	if p.Access != glow.AccessNone {
		w.WriteInteger(ber.Context(paramAccess), int64(p.Access))
	}
	if p.Format != "" {
		w.WriteString(ber.Context(paramFormat), p.Format)
	}
	for _, e := range p.Enumeration {
		w.WriteString(ber.Context(paramEnumeration), e)
	}
	if p.Formula != "" {
		w.WriteString(ber.Context(paramFormula), p.Formula)
	}
	if p.Step != nil {
		p.Step.encode(w, ber.Context(paramStep))
	}
	if p.Default != nil {
		p.Default.encode(w, ber.Context(paramDefault))
	}
	if p.Type != glow.ParameterTypeNone {
		w.WriteInteger(ber.Context(paramType), int64(p.Type))
	}
	if p.StreamIdentifier != nil {
		w.WriteInteger(ber.Context(paramStreamIdentifier), int64(*p.StreamIdentifier))
	}
	if p.StreamDescriptor != nil {
		w.StartSequence(ber.Context(paramStreamDescriptor))
		p.StreamDescriptor.Encode(w)
		w.EndSequence()
	}
	w.EndSequence()
}

func (p *Parameter) Encode(w *ber.Writer) {
	w.StartSequence(glow.Tag(glow.TagParameter))
	w.StartSequence(ber.Context(0))
	w.WriteInteger(ber.Context(0), int64(p.number))
	w.EndSequence()
	p.encodeContents(w)
	if p.SupportedCommand != nil {
		w.StartSequence(ber.Context(2))
		p.SupportedCommand.Encode(w)
		w.EndSequence()
	}
	w.EndSequence()
}

func (p *Parameter) EncodeQualified(w *ber.Writer) {
	w.StartSequence(glow.Tag(glow.TagQualifiedParameter))
	w.StartSequence(ber.Context(0))
	w.WriteRelativeOID(ber.Context(0), pathToArcs(p.Path()))
	w.EndSequence()
	p.encodeContents(w)
	if p.SupportedCommand != nil {
		w.StartSequence(ber.Context(2))
		p.SupportedCommand.Encode(w)
		w.EndSequence()
	}
	w.EndSequence()
}

func decodeParameterContents(r *ber.Reader, p *Parameter) error {
	if err := r.EnterSequence(ber.Context(1)); err != nil {
		return err
	}
	for !r.AtEnd() {
		tag, _, err := r.PeekTag()
		if err != nil {
			return err
		}
		switch tag.Number {
		case paramIdentifier:
			p.identifier, err = r.ReadString()
		case paramDescription:
			p.description, err = r.ReadString()
		case paramValue:
			p.Value, err = decodeScalar(r, ber.Context(paramValue))
		case paramMinimum:
			p.Minimum, err = decodeScalar(r, ber.Context(paramMinimum))
		case paramMaximum:
			p.Maximum, err = decodeScalar(r, ber.Context(paramMaximum))
		case paramAccess:
			var n int64
			n, err = r.ReadInteger()
			p.Access = glow.ParameterAccess(n)
		case paramFormat:
			p.Format, err = r.ReadString()
		case paramEnumeration:
			var s string
			s, err = r.ReadString()
			p.Enumeration = append(p.Enumeration, s)
		case paramFormula:
			p.Formula, err = r.ReadString()
		case paramStep:
			p.Step, err = decodeScalar(r, ber.Context(paramStep))
		case paramDefault:
			p.Default, err = decodeScalar(r, ber.Context(paramDefault))
		case paramType:
			var n int64
			n, err = r.ReadInteger()
			p.Type = glow.ParameterType(n)
		case paramStreamIdentifier:
			var n int64
			n, err = r.ReadInteger()
			n32 := int32(n)
			p.StreamIdentifier = &n32
		case paramStreamDescriptor:
			if err = r.EnterSequence(ber.Context(paramStreamDescriptor)); err != nil {
				break
			}
			if p.StreamDescriptor, err = decodeStreamDescription(r); err != nil {
				break
			}
			err = r.ExitSequence()
		default:
			err = r.SkipValue()
		}
		if err != nil {
			return err
		}
	}
	return r.ExitSequence()
}

func decodeParameter(r *ber.Reader, qualified bool) (*Parameter, error) {
	p := &Parameter{}
	if err := r.EnterSequence(ber.Context(0)); err != nil {
		return nil, err
	}
	if qualified {
		arcs, err := r.ReadRelativeOID()
		if err != nil {
			return nil, err
		}
		p.path = arcsToPath(arcs)
		if len(p.path) > 0 {
			p.number = p.path[len(p.path)-1]
		}
	} else {
		num, err := r.ReadInteger()
		if err != nil {
			return nil, err
		}
		p.number = int(num)
	}
	if err := r.ExitSequence(); err != nil {
		return nil, err
	}
	for !r.AtEnd() {
		tag, constructed, err := r.PeekTag()
		if err != nil {
			return nil, err
		}
		switch {
		case tag.Number == 1 && constructed:
			if err := decodeParameterContents(r, p); err != nil {
				return nil, err
			}
		case tag.Number == 2 && constructed:
			if err := r.EnterSequence(ber.Context(2)); err != nil {
				return nil, err
			}
			cmd, err := decodeCommand(r)
			if err != nil {
				return nil, err
			}
			p.SupportedCommand = cmd
			if err := r.ExitSequence(); err != nil {
				return nil, err
			}
		default:
			if err := r.SkipValue(); err != nil {
				return nil, err
			}
		}
	}
	return p, nil
}
