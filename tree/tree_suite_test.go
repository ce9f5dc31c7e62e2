// Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
package tree_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestTree(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, t.Name())
}
