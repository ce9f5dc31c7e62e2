// Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
package client_test

import (
	"context"
	"net"
	"time"

	"github.com/NVIDIA/emberplus-go/ber"
	"github.com/NVIDIA/emberplus-go/client"
	"github.com/NVIDIA/emberplus-go/glow"
	"github.com/NVIDIA/emberplus-go/s101"
	"github.com/NVIDIA/emberplus-go/tree"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

// writeGain sends a single-packet Root message with a qualified
// Parameter("gain", the given value) at path [1], as a real peer would answer
// either a root getDirectory or a getDirectory(path=[1]).
func writeGain(w *s101.Writer, value int64) {
	p := tree.NewParameter(1, "gain")
	p.Value = tree.IntValue(value)
	(&tree.Tree{}).AddChild(p)
	bw := ber.NewWriter(128)
	bw.StartSequence(glow.Tag(glow.TagRoot))
	p.EncodeQualified(bw)
	bw.EndSequence()
	_ = w.WriteEmberPacket(s101.PacketFlags(0, 1), bw.Bytes())
}

var _ = Describe("Client", func() {
	It("connects, runs GetDirectory, and mirrors the peer's answer into the local tree", func() {
		clientConn, peerConn := net.Pipe()
		defer clientConn.Close()
		defer peerConn.Close()

		go func() {
			r := s101.NewReader(peerConn)
			_, _ = r.ReadFrame() // the root getDirectory
			writeGain(s101.NewWriter(peerConn), 42)
		}()

		cfg := client.DefaultConfig()
		cfg.RequestTimeout = 2 * time.Second
		cfg.ConnectTimeout = 2 * time.Second
		c := client.New(clientConn, cfg)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		Expect(c.Connect(ctx)).To(Succeed())
		Expect(c.IsConnected()).To(BeTrue())

		elems, err := c.GetDirectory(ctx, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(elems).To(HaveLen(1))
		Expect(elems[0].Number()).To(Equal(1))

		e := c.GetElementByPath([]int{1})
		Expect(e).NotTo(BeNil())
		Expect(e.Identifier()).To(Equal("gain"))
	})

	It("completes a SetValue round-trip", func() {
		clientConn, peerConn := net.Pipe()
		defer clientConn.Close()
		defer peerConn.Close()

		go func() {
			r := s101.NewReader(peerConn)
			_, _ = r.ReadFrame() // root getDirectory
			writeGain(s101.NewWriter(peerConn), 1)
			_, _ = r.ReadFrame() // setValue
			writeGain(s101.NewWriter(peerConn), 7)
		}()

		cfg := client.DefaultConfig()
		cfg.RequestTimeout = 2 * time.Second
		c := client.New(clientConn, cfg)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		Expect(c.Connect(ctx)).To(Succeed())
		_, err := c.GetDirectory(ctx, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(c.SetValue(ctx, []int{1}, tree.IntValue(7))).To(Succeed())
		e := c.GetElementByPath([]int{1}).(*tree.Parameter)
		Expect(e.Value.Int).To(Equal(int64(7)))
	})

	It("rejects a matrix connect request whose target is out of range without a round trip", func() {
		clientConn, peerConn := net.Pipe()
		defer clientConn.Close()
		defer peerConn.Close()
		defer func() { _ = peerConn }()

		cfg := client.DefaultConfig()
		c := client.New(clientConn, cfg)

		m := tree.NewMatrix(2, "xbar")
		m.TargetCount, m.SourceCount = 4, 4
		Expect(c.Tree().AddChild(m)).To(Succeed())

		err := c.MatrixConnect(context.Background(), []int{2}, 9, []int{0})
		Expect(err).To(HaveOccurred())
	})

	It("delivers unsolicited updates to a subscription callback", func() {
		clientConn, peerConn := net.Pipe()
		defer clientConn.Close()
		defer peerConn.Close()

		notified := make(chan []tree.Elem, 1)

		go func() {
			r := s101.NewReader(peerConn)
			w := s101.NewWriter(peerConn)
			_, _ = r.ReadFrame() // subscribe request
			writeGain(w, 1)      // the subscribe confirmation itself
			time.Sleep(50 * time.Millisecond)
			writeGain(w, 99) // a later unsolicited push
		}()

		cfg := client.DefaultConfig()
		cfg.RequestTimeout = 2 * time.Second
		c := client.New(clientConn, cfg)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		Expect(c.Connect(ctx)).To(Succeed())

		err := c.Subscribe(ctx, []int{1}, func(elems []tree.Elem) { notified <- elems })
		Expect(err).NotTo(HaveOccurred())

		Eventually(notified, time.Second).Should(Receive())
	})
})
