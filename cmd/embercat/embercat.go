// Package main implements embercat, a low-level tool to dump a saved
// Ember+ tree snapshot (client.SaveTree's BER output) as plain text or
// JSON — the Ember+ analogue of xmeta's metadata extract/format tool.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/NVIDIA/emberplus-go/ber"
	"github.com/NVIDIA/emberplus-go/cmn/cos"
	"github.com/NVIDIA/emberplus-go/tree"
)

var flags struct {
	in   string
	out  string
	json bool
	help bool
}

const helpMsg = `Build:
	go install ./cmd/embercat

Examples:
	embercat -in=snapshot.ember                 - dump a saved tree to STDOUT as plain text
	embercat -in=snapshot.ember -json           - dump as JSON
	embercat -in=snapshot.ember -out=dump.json -json
`

// elemView is a JSON-friendly projection of a tree.Elem: Elem itself
// deliberately keeps most of its state unexported, so this walks the
// exported accessors rather than marshaling the interface directly.
type elemView struct {
	Number     int         `json:"number"`
	Identifier string      `json:"identifier,omitempty"`
	Path       string      `json:"path"`
	Kind       string      `json:"kind"`
	Value      interface{} `json:"value,omitempty"`
	Children   []elemView  `json:"children,omitempty"`
}

func buildView(e tree.Elem) elemView {
	v := elemView{
		Number:     e.Number(),
		Identifier: e.Identifier(),
		Path:       tree.PathString(e.Path()),
		Kind:       e.Kind().String(),
	}
	switch t := e.(type) {
	case *tree.Parameter:
		if t.Value != nil {
			v.Value = scalarView(t.Value)
		}
	case *tree.Node:
		for _, c := range t.Children() {
			v.Children = append(v.Children, buildView(c))
		}
	case *tree.Matrix:
		for _, c := range t.Children() {
			v.Children = append(v.Children, buildView(c))
		}
	}
	return v
}

func scalarView(s *tree.Scalar) interface{} {
	switch {
	case s.Str != "":
		return s.Str
	case s.Real != 0:
		return s.Real
	case s.Octets != nil:
		return s.Octets
	default:
		return s.Int
	}
}

func printTextTo(w io.Writer, v elemView, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	line := fmt.Sprintf("%s[%s] %s (%s)", indent, v.Path, v.Identifier, v.Kind)
	if v.Value != nil {
		line += fmt.Sprintf(" = %v", v.Value)
	}
	fmt.Fprintln(w, line)
	for _, c := range v.Children {
		printTextTo(w, c, depth+1)
	}
}

func run() error {
	data, err := os.ReadFile(flags.in)
	if err != nil {
		return err
	}
	r := ber.NewReader(data)
	elems, _, err := tree.DecodeMessage(r)
	if err != nil {
		return err
	}

	views := make([]elemView, 0, len(elems))
	for _, e := range elems {
		views = append(views, buildView(e))
	}

	out := os.Stdout
	if flags.out != "" {
		f, err := os.Create(flags.out)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if !flags.json {
		for _, v := range views {
			printTextTo(out, v, 0)
		}
		return nil
	}

	_, err = out.Write(cos.MustMarshalIndent(views))
	return err
}

func main() {
	newFlag := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	newFlag.StringVar(&flags.in, "in", "", "fully-qualified input filename (a client.SaveTree snapshot)")
	newFlag.StringVar(&flags.out, "out", "", "output filename (default: STDOUT)")
	newFlag.BoolVar(&flags.json, "json", false, "dump as JSON instead of indented plain text")
	newFlag.BoolVar(&flags.help, "h", false, "print usage and exit")
	newFlag.Parse(os.Args[1:])
	if flags.help || flags.in == "" {
		fmt.Println(helpMsg)
		return
	}
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "embercat:", err)
		os.Exit(1)
	}
}
