// Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
package ber

import "fmt"

// The four decode-failure kinds from spec.md §4.A's reader contract.
type (
	ErrUnexpectedTag struct {
		Want, Got Tag
	}
	ErrTruncatedInput struct {
		Need, Have int
	}
	ErrInvalidLength struct {
		Reason string
	}
	ErrExcessData struct {
		Remaining int
	}
)

func (e *ErrUnexpectedTag) Error() string {
	return fmt.Sprintf("unexpected tag: want %s, got %s", e.Want, e.Got)
}

func (e *ErrTruncatedInput) Error() string {
	return fmt.Sprintf("truncated input: need %d more byte(s), have %d", e.Need, e.Have)
}

func (e *ErrInvalidLength) Error() string {
	return "invalid length: " + e.Reason
}

func (e *ErrExcessData) Error() string {
	return fmt.Sprintf("excess data: %d byte(s) left after decoding", e.Remaining)
}
