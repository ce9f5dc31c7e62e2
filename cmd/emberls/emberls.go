// Package main implements emberls, a tool that connects to a live
// Ember+ provider over TCP, walks a path, and prints its children —
// the Ember+ analogue of xmeta's extract tool, but talking to a live
// peer instead of reading a saved file.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/NVIDIA/emberplus-go/client"
	"github.com/NVIDIA/emberplus-go/tree"
)

var flags struct {
	addr    string
	path    string
	timeout time.Duration
	help    bool
}

const helpMsg = `Build:
	go install ./cmd/emberls

Examples:
	emberls -addr=provider.local:9000              - list the root tree
	emberls -addr=provider.local:9000 -path=1.2     - list the children of 1.2
`

func printChildren(elems []tree.Elem) {
	for _, e := range elems {
		fmt.Printf("%s\t%s\t%s\n", tree.PathString(e.Path()), e.Kind(), e.Identifier())
	}
}

func run() error {
	path, err := tree.ParsePath(flags.path)
	if err != nil {
		return err
	}

	conn, err := net.DialTimeout("tcp", flags.addr, flags.timeout)
	if err != nil {
		return err
	}
	defer conn.Close()

	cfg := client.DefaultConfig()
	cfg.ConnectTimeout = flags.timeout
	c := client.New(conn, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), flags.timeout)
	defer cancel()
	if err := c.Connect(ctx); err != nil {
		return err
	}
	defer c.Disconnect()

	elems, err := c.GetDirectory(ctx, path)
	if err != nil {
		return err
	}
	printChildren(elems)
	return nil
}

func main() {
	newFlag := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	newFlag.StringVar(&flags.addr, "addr", "", "provider host:port")
	newFlag.StringVar(&flags.path, "path", "", "dotted-decimal path to expand (default: root)")
	newFlag.DurationVar(&flags.timeout, "timeout", 5*time.Second, "connect/request timeout")
	newFlag.BoolVar(&flags.help, "h", false, "print usage and exit")
	newFlag.Parse(os.Args[1:])
	if flags.help || flags.addr == "" {
		fmt.Println(helpMsg)
		return
	}
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "emberls:", err)
		os.Exit(1)
	}
}
