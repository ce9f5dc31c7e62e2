// Package cos — JSON helpers, following the same jsoniter-as-encoding/json
// drop-in convention aistore uses throughout (e.g. cmn/cos/fs.go).
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import jsoniter "github.com/json-iterator/go"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MustMarshal panics on a marshal error; reserved for values whose
// shape is statically known to be marshalable (config dumps, CLI tree
// dumps) — never for peer-controlled data.
func MustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

func MustMarshalIndent(v any) []byte {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		panic(err)
	}
	return b
}
