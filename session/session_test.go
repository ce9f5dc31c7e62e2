// Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
package session_test

import (
	"context"
	"net"
	"time"

	"github.com/NVIDIA/emberplus-go/ber"
	"github.com/NVIDIA/emberplus-go/glow"
	"github.com/NVIDIA/emberplus-go/s101"
	"github.com/NVIDIA/emberplus-go/session"
	"github.com/NVIDIA/emberplus-go/tree"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

// writePeerUpdate sends a single-packet Root message containing a
// qualified Parameter("gain", value 42 at path [1]) over conn, as if a
// real Ember+ peer answered a getDirectory request.
func writePeerUpdate(w *s101.Writer) {
	p := tree.NewParameter(1, "gain")
	p.Value = tree.IntValue(42)
	// Stamp p's absolute path the normal exported way (as if it were a
	// root child of the peer's own tree) so EncodeQualified has
	// something to write.
	(&tree.Tree{}).AddChild(p)
	bw := ber.NewWriter(128)
	bw.StartSequence(glow.Tag(glow.TagRoot))
	p.EncodeQualified(bw)
	bw.EndSequence()
	_ = w.WriteEmberPacket(s101.PacketFlags(0, 1), bw.Bytes())
}

var _ = Describe("Session", func() {
	It("completes a Send round-trip once the peer answers", func() {
		clientConn, peerConn := net.Pipe()
		defer clientConn.Close()
		defer peerConn.Close()

		go func() {
			r := s101.NewReader(peerConn)
			_, _ = r.ReadFrame() // the outbound getDirectory request
			writePeerUpdate(s101.NewWriter(peerConn))
		}()

		cfg := session.DefaultConfig()
		cfg.RequestTimeout = 2 * time.Second
		sess := session.New(clientConn, &tree.Tree{}, cfg)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		Expect(sess.Start(ctx)).To(Succeed())

		req := tree.GetDirectoryRequest(tree.KindParameter, []int{1})
		elems, err := sess.Send(ctx, req, func(elems []tree.Elem) bool { return len(elems) > 0 })
		Expect(err).NotTo(HaveOccurred())
		Expect(elems).To(HaveLen(1))
		Expect(elems[0].Number()).To(Equal(1))
	})

	It("times out when the peer never answers", func() {
		clientConn, peerConn := net.Pipe()
		defer clientConn.Close()
		defer peerConn.Close()

		go func() {
			r := s101.NewReader(peerConn)
			_, _ = r.ReadFrame()
			// never answers
		}()

		cfg := session.DefaultConfig()
		cfg.RequestTimeout = 100 * time.Millisecond
		sess := session.New(clientConn, &tree.Tree{}, cfg)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		Expect(sess.Start(ctx)).To(Succeed())

		req := tree.GetDirectoryRequest(tree.KindParameter, []int{1})
		_, err := sess.Send(ctx, req, func(elems []tree.Elem) bool { return len(elems) > 0 })
		Expect(err).To(HaveOccurred())
	})
})
