/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */

// Package session drives the half-duplex request/response pipeline on
// top of an s101 byte stream (spec.md §4.D): one request in flight at a
// time, response matching by operation shape, deadline timeouts, and
// invocation-id correlated function calls running independently of the
// single-in-flight rule.
package session

import (
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config holds the session engine's tunables (spec.md §6 "Configuration").
// Host/Port describe the peer this config was dialed (or is meant to be
// dialed) against; the session itself never dials — ByteStream is an
// external collaborator — but callers that build one from a Config still
// want a single bag to carry both the address and the engine's own
// timing knobs.
type Config struct {
	Host string `json:"host"`
	Port uint16 `json:"port"`
	// RequestTimeout bounds how long a single in-flight request waits
	// for its matching response before failing with cos.ErrTimeout.
	RequestTimeout time.Duration `json:"requestTimeout"`
	// KeepAliveInterval is how often this client sends a keep-alive
	// request while the session is Active, whether or not a request is
	// in flight; zero disables keep-alives.
	KeepAliveInterval time.Duration `json:"keepAliveInterval"`
	// KeepAliveTimeout bounds how long the session will go without
	// hearing anything at all from the peer before it declares the
	// transport dead and tears the pipeline down.
	KeepAliveTimeout time.Duration `json:"keepAliveTimeout"`
	// QueueDepth is loaded and defaulted with the rest of the config, but
	// Send does not read it: callers waiting for the single in-flight
	// slot block on it without any bound on their number.
	QueueDepth int `json:"queueDepth"`
}

// DefaultConfig matches spec.md §6's stated defaults.
func DefaultConfig() Config {
	return Config{
		Port:              9000,
		RequestTimeout:    3 * time.Second,
		KeepAliveInterval: 2 * time.Second,
		KeepAliveTimeout:  10 * time.Second,
		QueueDepth:        32,
	}
}

// LoadConfig decodes a Config from JSON, defaulting any zero-valued
// field left unset in r.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := json.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultConfig().RequestTimeout
	}
	if cfg.KeepAliveTimeout <= 0 {
		cfg.KeepAliveTimeout = DefaultConfig().KeepAliveTimeout
	}
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = DefaultConfig().QueueDepth
	}
	return cfg, nil
}
