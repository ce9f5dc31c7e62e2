// Package debug provides assertion helpers that compile away to no-ops.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package debug

func ON() bool { return false }

func Infof(_ string, _ ...any) {}

func Assert(_ bool, _ ...any)            {}
func AssertNoErr(_ error)                {}
func Assertf(_ bool, _ string, _ ...any) {}
