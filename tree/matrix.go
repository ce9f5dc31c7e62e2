/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package tree

import (
	"github.com/NVIDIA/emberplus-go/ber"
	"github.com/NVIDIA/emberplus-go/glow"
)

// Connection is one target's current routing state (spec.md §3:
// `connections` map `targetId -> {sources[], operation, disposition, locked}`).
type Connection struct {
	Target      int
	Sources     []int
	Operation   glow.MatrixOperation
	Disposition glow.ConnectionDisposition
	Locked      bool
}

// Matrix is a crossbar routing element (spec.md §3).
type Matrix struct {
	Element

	Type                     glow.MatrixType
	AddressingMode           glow.MatrixAddressingMode
	TargetCount              int
	SourceCount              int
	MaximumTotalConnects     int
	MaximumConnectsPerTarget int
	ParametersLocation       string
	Labels                   map[string]string

	Connections map[int]*Connection

	kids childSet
}

func NewMatrix(number int, identifier string) *Matrix {
	return &Matrix{Element: Element{number: number, identifier: identifier}}
}

func (m *Matrix) Kind() Kind          { return KindMatrix }
func (m *Matrix) children() *childSet { return &m.kids }
func (m *Matrix) Children() []Elem    { return m.kids.list() }

func (m *Matrix) AddChild(child Elem) error {
	child.setPath(append(m.Path(), child.Number()))
	return m.kids.add(child)
}

func (m *Matrix) mergeScalars(src Elem) {
	o, ok := src.(*Matrix)
	if !ok {
		return
	}
	if o.identifier != "" {
		m.identifier = o.identifier
	}
	if o.description != "" {
		m.description = o.description
	}
	if o.TargetCount != 0 {
		m.TargetCount = o.TargetCount
	}
	if o.SourceCount != 0 {
		m.SourceCount = o.SourceCount
	}
	if o.MaximumTotalConnects != 0 {
		m.MaximumTotalConnects = o.MaximumTotalConnects
	}
	if o.MaximumConnectsPerTarget != 0 {
		m.MaximumConnectsPerTarget = o.MaximumConnectsPerTarget
	}
	if o.ParametersLocation != "" {
		m.ParametersLocation = o.ParametersLocation
	}
	if o.Labels != nil {
		if m.Labels == nil {
			m.Labels = make(map[string]string, len(o.Labels))
		}
		for k, v := range o.Labels {
			m.Labels[k] = v
		}
	}
	if o.Connections != nil {
		if m.Connections == nil {
			m.Connections = make(map[int]*Connection, len(o.Connections))
		}
		for target, c := range o.Connections {
			m.Connections[target] = c
		}
	}
}

const (
	matrixIdentifier = iota
	matrixDescription
	matrixType
	matrixAddressingMode
	matrixTargetCount
	matrixSourceCount
	matrixMaximumTotalConnects
	matrixMaximumConnectsPerTarget
	matrixParametersLocation
	matrixLabels
	matrixConnections
)

func (m *Matrix) encodeContents(w *ber.Writer) {
	w.StartSequence(ber.Context(1))
	if m.identifier != "" {
		w.WriteString(ber.Context(matrixIdentifier), m.identifier)
	}
	if m.description != "" {
		w.WriteString(ber.Context(matrixDescription), m.description)
	}
	w.WriteInteger(ber.Context(matrixType), int64(m.Type))
	w.WriteInteger(ber.Context(matrixAddressingMode), int64(m.AddressingMode))
	w.WriteInteger(ber.Context(matrixTargetCount), int64(m.TargetCount))
	w.WriteInteger(ber.Context(matrixSourceCount), int64(m.SourceCount))
	if m.MaximumTotalConnects != 0 {
		w.WriteInteger(ber.Context(matrixMaximumTotalConnects), int64(m.MaximumTotalConnects))
	}
	if m.MaximumConnectsPerTarget != 0 {
		w.WriteInteger(ber.Context(matrixMaximumConnectsPerTarget), int64(m.MaximumConnectsPerTarget))
	}
	if m.ParametersLocation != "" {
		w.WriteString(ber.Context(matrixParametersLocation), m.ParametersLocation)
	}
	if len(m.Connections) > 0 {
		w.StartSequence(ber.Context(matrixConnections))
		for _, c := range m.Connections {
			w.StartSequence(glow.Tag(glow.TagConnection))
			w.WriteInteger(ber.Context(0), int64(c.Target))
			w.StartSequence(ber.Context(1))
			for _, s := range c.Sources {
				w.WriteInteger(ber.Context(0), int64(s))
			}
			w.EndSequence()
			w.WriteInteger(ber.Context(2), int64(c.Operation))
			w.WriteInteger(ber.Context(3), int64(c.Disposition))
			w.EndSequence()
		}
		w.EndSequence()
	}
	w.EndSequence()
}

func (m *Matrix) Encode(w *ber.Writer) {
	w.StartSequence(glow.Tag(glow.TagMatrix))
	w.StartSequence(ber.Context(0))
	w.WriteInteger(ber.Context(0), int64(m.number))
	w.EndSequence()
	m.encodeContents(w)
	w.EndSequence()
}

func (m *Matrix) EncodeQualified(w *ber.Writer) {
	w.StartSequence(glow.Tag(glow.TagQualifiedMatrix))
	w.StartSequence(ber.Context(0))
	w.WriteRelativeOID(ber.Context(0), pathToArcs(m.Path()))
	w.EndSequence()
	m.encodeContents(w)
	w.EndSequence()
}

func decodeConnection(r *ber.Reader) (*Connection, error) {
	if err := r.EnterSequence(glow.Tag(glow.TagConnection)); err != nil {
		return nil, err
	}
	c := &Connection{}
	target, err := r.ReadInteger()
	if err != nil {
		return nil, err
	}
	c.Target = int(target)
	for !r.AtEnd() {
		tag, constructed, err := r.PeekTag()
		if err != nil {
			return nil, err
		}
		switch {
		case tag.Number == 1 && constructed:
			if err := r.EnterSequence(ber.Context(1)); err != nil {
				return nil, err
			}
			for !r.AtEnd() {
				s, err := r.ReadInteger()
				if err != nil {
					return nil, err
				}
				c.Sources = append(c.Sources, int(s))
			}
			if err := r.ExitSequence(); err != nil {
				return nil, err
			}
		case tag.Number == 2:
			n, err := r.ReadInteger()
			if err != nil {
				return nil, err
			}
			c.Operation = glow.MatrixOperation(n)
		case tag.Number == 3:
			n, err := r.ReadInteger()
			if err != nil {
				return nil, err
			}
			c.Disposition = glow.ConnectionDisposition(n)
		default:
			if err := r.SkipValue(); err != nil {
				return nil, err
			}
		}
	}
	if err := r.ExitSequence(); err != nil {
		return nil, err
	}
	return c, nil
}

func decodeMatrixContents(r *ber.Reader, m *Matrix) error {
	if err := r.EnterSequence(ber.Context(1)); err != nil {
		return err
	}
	for !r.AtEnd() {
		tag, constructed, err := r.PeekTag()
		if err != nil {
			return err
		}
		switch {
		case tag.Number == matrixConnections && constructed:
			if err := r.EnterSequence(ber.Context(matrixConnections)); err != nil {
				return err
			}
			if m.Connections == nil {
				m.Connections = make(map[int]*Connection)
			}
			for !r.AtEnd() {
				c, err := decodeConnection(r)
				if err != nil {
					return err
				}
				m.Connections[c.Target] = c
			}
			if err := r.ExitSequence(); err != nil {
				return err
			}
		default:
			switch tag.Number {
			case matrixIdentifier:
				m.identifier, err = r.ReadString()
			case matrixDescription:
				m.description, err = r.ReadString()
			case matrixType:
				var n int64
				n, err = r.ReadInteger()
				m.Type = glow.MatrixType(n)
			case matrixAddressingMode:
				var n int64
				n, err = r.ReadInteger()
				m.AddressingMode = glow.MatrixAddressingMode(n)
			case matrixTargetCount:
				var n int64
				n, err = r.ReadInteger()
				m.TargetCount = int(n)
			case matrixSourceCount:
				var n int64
				n, err = r.ReadInteger()
				m.SourceCount = int(n)
			case matrixMaximumTotalConnects:
				var n int64
				n, err = r.ReadInteger()
				m.MaximumTotalConnects = int(n)
			case matrixMaximumConnectsPerTarget:
				var n int64
				n, err = r.ReadInteger()
				m.MaximumConnectsPerTarget = int(n)
			case matrixParametersLocation:
				m.ParametersLocation, err = r.ReadString()
			default:
				err = r.SkipValue()
			}
			if err != nil {
				return err
			}
		}
	}
	return r.ExitSequence()
}

func decodeMatrix(r *ber.Reader, qualified bool) (*Matrix, error) {
	m := &Matrix{}
	if err := r.EnterSequence(ber.Context(0)); err != nil {
		return nil, err
	}
	if qualified {
		arcs, err := r.ReadRelativeOID()
		if err != nil {
			return nil, err
		}
		m.path = arcsToPath(arcs)
		if len(m.path) > 0 {
			m.number = m.path[len(m.path)-1]
		}
	} else {
		num, err := r.ReadInteger()
		if err != nil {
			return nil, err
		}
		m.number = int(num)
	}
	if err := r.ExitSequence(); err != nil {
		return nil, err
	}
	for !r.AtEnd() {
		tag, constructed, err := r.PeekTag()
		if err != nil {
			return nil, err
		}
		if tag.Number == 1 && constructed {
			if err := decodeMatrixContents(r, m); err != nil {
				return nil, err
			}
			continue
		}
		if err := r.SkipValue(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ConnectRequest builds the MatrixConnection fragment spec.md §4.C's
// connectRequest describes: a request naming this matrix's path and
// the single connection change requested.
func (m *Matrix) ConnectRequest(op glow.MatrixOperation, target int, sources []int) *Request {
	return &Request{
		Kind: KindMatrix,
		Path: m.Path(),
		Connection: &Connection{Target: target, Sources: sources, Operation: op},
	}
}
