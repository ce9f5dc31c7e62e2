// Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
package tree_test

import (
	"github.com/NVIDIA/emberplus-go/ber"
	"github.com/NVIDIA/emberplus-go/glow"
	"github.com/NVIDIA/emberplus-go/tree"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Tree", func() {
	It("rejects a duplicate sibling number", func() {
		tr := &tree.Tree{}
		Expect(tr.AddChild(tree.NewNode(1, "a"))).To(Succeed())
		Expect(tr.AddChild(tree.NewNode(1, "b"))).NotTo(Succeed())
	})

	It("looks up children by number and by path in O(1) per level", func() {
		tr := &tree.Tree{}
		root := tree.NewNode(1, "root")
		Expect(tr.AddChild(root)).To(Succeed())
		child := tree.NewNode(2, "child")
		Expect(root.AddChild(child)).To(Succeed())

		got, ok := tr.GetElementByNumber(1)
		Expect(ok).To(BeTrue())
		Expect(got).To(BeIdenticalTo(Elem(root)))

		byPath := tr.GetElementByPath([]int{1, 2})
		Expect(byPath).To(BeIdenticalTo(Elem(child)))

		Expect(tr.GetElementByPath([]int{1, 99})).To(BeNil())
		Expect(tr.GetElementByPath([]int{9})).To(BeNil())
	})

	It("merges a positional fragment, overwriting only present scalars", func() {
		tr := &tree.Tree{}
		p := tree.NewParameter(1, "gain")
		p.Value = tree.IntValue(0)
		p.Access = glow.AccessRead
		Expect(tr.AddChild(p)).To(Succeed())

		frag := tree.NewParameter(1, "")
		frag.Value = tree.IntValue(7)
		tr.Update([]tree.Elem{frag})

		got, _ := tr.GetElementByNumber(1)
		gp := got.(*tree.Parameter)
		Expect(gp.Value.Equal(tree.IntValue(7))).To(BeTrue())
		Expect(gp.Identifier()).To(Equal("gain")) // preserved: fragment's identifier was empty
		Expect(gp.Access).To(Equal(glow.AccessRead))
	})

	It("is idempotent: applying the same fragment twice has the same effect as once", func() {
		tr := &tree.Tree{}

		frag := tree.NewParameter(2, "level")
		frag.Value = tree.RealValue(3.5)

		tr.Update([]tree.Elem{frag})
		first, _ := tr.GetElementByNumber(2)
		tr.Update([]tree.Elem{frag})
		second, _ := tr.GetElementByNumber(2)

		firstParam, secondParam := first.(*tree.Parameter), second.(*tree.Parameter)
		Expect(secondParam.Value.Equal(firstParam.Value)).To(BeTrue())
		Expect(secondParam.Identifier()).To(Equal(firstParam.Identifier()))
	})

	It("canonicalizes a qualified fragment to the same storage location a positional walk reaches", func() {
		// Build the subtree using the exported AddChild path (which stamps
		// absolute paths the normal way), encode it as a qualified Root
		// message, decode it into a fresh tree, and confirm the decoded
		// nested parameter lands exactly where a plain positional walk
		// from root would expect it.
		root := tree.NewNode(1, "root")
		depth := tree.NewParameter(2, "depth")
		Expect(root.AddChild(depth)).To(Succeed())

		built := &tree.Tree{}
		Expect(built.AddChild(root)).To(Succeed())

		w := ber.NewWriter(128)
		w.StartSequence(glow.Tag(glow.TagRoot))
		root.EncodeQualified(w)
		w.EndSequence()

		r := ber.NewReader(w.Bytes())
		elems, _, err := tree.DecodeMessage(r)
		Expect(err).NotTo(HaveOccurred())

		tr := &tree.Tree{}
		tr.Update(elems)

		viaPositional := tr.GetElementByPath([]int{1, 2})
		Expect(viaPositional).NotTo(BeNil())
		Expect(viaPositional.Number()).To(Equal(2))
		Expect(viaPositional.Identifier()).To(Equal("depth"))
	})
})

var _ = Describe("BER structure round-trips", func() {
	It("round-trips a Parameter through encode/decode", func() {
		p := tree.NewParameter(3, "level")
		p.Value = tree.RealValue(-1.5)
		p.Access = glow.AccessReadWrite
		p.Type = glow.ParameterTypeReal

		w := ber.NewWriter(64)
		p.Encode(w)

		r := ber.NewReader(w.Bytes())
		tag, _, err := r.PeekTag()
		Expect(err).NotTo(HaveOccurred())
		Expect(tag).To(Equal(glow.Tag(glow.TagParameter)))

		rw := ber.NewWriter(64)
		rw.StartSequence(glow.Tag(glow.TagRoot))
		p.Encode(rw)
		rw.EndSequence()

		elems, result, err := tree.DecodeMessage(ber.NewReader(rw.Bytes()))
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(BeNil())
		Expect(elems).To(HaveLen(1))
		got := elems[0].(*tree.Parameter)
		Expect(got.Number()).To(Equal(3))
		Expect(got.Identifier()).To(Equal("level"))
		Expect(got.Value.Equal(tree.RealValue(-1.5))).To(BeTrue())
		Expect(got.Access).To(Equal(glow.AccessReadWrite))
		Expect(got.Type).To(Equal(glow.ParameterTypeReal))
	})

	It("round-trips a full Root message with a node subtree", func() {
		root := tree.NewNode(1, "device")
		child := tree.NewParameter(1, "gain")
		child.Value = tree.IntValue(42)
		Expect(root.AddChild(child)).To(Succeed())

		w := ber.NewWriter(128)
		w.StartSequence(glow.Tag(glow.TagRoot))
		root.Encode(w)
		w.EndSequence()

		r := ber.NewReader(w.Bytes())
		elems, result, err := tree.DecodeMessage(r)
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(BeNil())
		Expect(elems).To(HaveLen(1))

		got := elems[0].(*tree.Node)
		Expect(got.Identifier()).To(Equal("device"))
		Expect(got.Children()).To(HaveLen(1))
		gotChild := got.Children()[0].(*tree.Parameter)
		Expect(gotChild.Value.Equal(tree.IntValue(42))).To(BeTrue())
	})

	It("round-trips an InvocationResult", func() {
		fn := tree.NewFunction(4, "reboot")
		req := fn.InvokeRequest(7, []*tree.Scalar{tree.IntValue(1)})
		w := ber.NewWriter(64)
		req.Encode(w)
		// The request envelope encodes without error.
		Expect(w.Bytes()).NotTo(BeEmpty())

		// A peer's InvocationResult for that call decodes through
		// DecodeMessage with its id, success flag and result values.
		rw := ber.NewWriter(64)
		rw.StartSequence(glow.Tag(glow.TagRoot))
		rw.StartSequence(glow.Tag(glow.TagInvocationResult))
		rw.WriteInteger(ber.Context(0), 7)
		rw.WriteBoolean(ber.Context(1), true)
		rw.StartSequence(ber.Context(2))
		rw.StartSequence(ber.Context(0))
		rw.WriteInteger(ber.Context(0), 1)
		rw.EndSequence()
		rw.EndSequence()
		rw.EndSequence()
		rw.EndSequence()

		elems, result, err := tree.DecodeMessage(ber.NewReader(rw.Bytes()))
		Expect(err).NotTo(HaveOccurred())
		Expect(elems).To(BeEmpty())
		Expect(result).NotTo(BeNil())
		Expect(result.InvocationID).To(Equal(int32(7)))
		Expect(result.Success).To(BeTrue())
		Expect(result.Result).To(HaveLen(1))
		Expect(result.Result[0].Equal(tree.IntValue(1))).To(BeTrue())
	})
})

// Elem is a type alias so test literals can be written against the
// exported interface without importing it twice under two names.
type Elem = tree.Elem
