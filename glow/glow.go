// Package glow holds the Ember+ application-tag schema (historically
// named "Glow" in the protocol's own ASN.1 module) built on top of the
// bare BER codec in package ber: the application tag numbers, the
// context tags that label fields inside each structure, and the small
// enumerations (parameter access, matrix type, stream format, ...)
// spec.md §3/§4.A describe.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package glow

import "github.com/NVIDIA/emberplus-go/ber"

// Application tags (spec.md §4.A).
const (
	TagParameter            = 1
	TagCommand              = 2
	TagNode                 = 3
	TagElementCollection    = 4
	TagStreamEntry          = 5
	TagStreamCollection     = 6
	TagQualifiedParameter   = 9
	TagQualifiedNode        = 10
	TagRoot                 = 11
	TagStreamDescription    = 12
	TagMatrix               = 13
	TagTarget               = 14
	TagSource               = 15
	TagConnection           = 16
	TagQualifiedMatrix      = 17
	TagFunction             = 19
	TagQualifiedFunction    = 20
	TagTupleItemDescription = 21
	TagInvocation           = 22
	TagInvocationResult     = 23
	TagTemplate             = 24
	TagQualifiedTemplate    = 25
)

func apptag(n uint64) ber.Tag { return ber.Application(n) }

// Tag returns the application Tag for one of the Tag* constants above.
func Tag(n int) ber.Tag { return apptag(uint64(n)) }

// CommandNumber selects what a Command structure asks the peer to do.
// The distilled spec names only GetDirectory and Invoke; Subscribe and
// Unsubscribe are restored from the original protocol (SPEC_FULL.md §7).
type CommandNumber int

const (
	CommandGetDirectory CommandNumber = 0
	CommandSubscribe    CommandNumber = 30
	CommandUnsubscribe  CommandNumber = 31
	CommandInvoke       CommandNumber = 32
)

// ParameterType selects the Go type stored in a Parameter's value/
// minimum/maximum/default fields.
type ParameterType int

const (
	ParameterTypeNone ParameterType = iota
	ParameterTypeInteger
	ParameterTypeReal
	ParameterTypeString
	ParameterTypeBoolean
	ParameterTypeTrigger
	ParameterTypeEnum
	ParameterTypeOctets
)

// ParameterAccess is the peer-declared read/write permission of a
// Parameter.
type ParameterAccess int

const (
	AccessNone ParameterAccess = iota
	AccessRead
	AccessWrite
	AccessReadWrite
)

// MatrixType distinguishes how sources may be assigned to targets.
type MatrixType int

const (
	MatrixTypeOneToN MatrixType = iota
	MatrixTypeOneToOne
	MatrixTypeNToN
)

// MatrixAddressingMode distinguishes contiguous numeric target/source
// ids ("linear") from an explicit label-keyed id space ("nonLinear").
type MatrixAddressingMode int

const (
	AddressingLinear MatrixAddressingMode = iota
	AddressingNonLinear
)

// MatrixOperation is the kind of change a connectRequest asks for.
type MatrixOperation int

const (
	OperationConnect MatrixOperation = iota
	OperationDisconnect
	OperationAbsolute
)

// ConnectionDisposition reports how the peer actually applied a
// connectRequest.
type ConnectionDisposition int

const (
	DispositionTally ConnectionDisposition = iota
	DispositionModified
	DispositionPending
	DispositionLocked
)

// StreamFormat selects a multiplexed-stream sample type. Values follow
// the protocol's own numbering, which reserves 3 for a sample width
// this client never decodes.
type StreamFormat int

const (
	StreamInt8 StreamFormat = iota
	StreamInt16BE
	StreamInt16LE
	_ // reserved
	StreamInt32BE
	StreamInt32LE
	StreamInt64BE
	StreamInt64LE
	StreamFloat32BE
	StreamFloat32LE
	StreamFloat64BE
	StreamFloat64LE
)
