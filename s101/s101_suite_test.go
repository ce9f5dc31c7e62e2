// Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
package s101_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestS101(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, t.Name())
}
