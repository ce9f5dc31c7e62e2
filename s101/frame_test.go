// Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
package s101_test

import (
	"bytes"

	"github.com/NVIDIA/emberplus-go/s101"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Frame", func() {
	It("round-trips a single-packet EmBER payload", func() {
		var buf bytes.Buffer
		w := s101.NewWriter(&buf)
		payload := []byte{0x01, 0x02, 0x03}
		Expect(w.WriteEmberPacket(s101.PacketFlags(0, 1), payload)).To(Succeed())

		r := s101.NewReader(&buf)
		f, err := r.ReadFrame()
		Expect(err).NotTo(HaveOccurred())
		Expect(f.IsEmber()).To(BeTrue())
		Expect(f.First()).To(BeTrue())
		Expect(f.Last()).To(BeTrue())
		Expect(f.Payload()).To(Equal(payload))
	})

	It("byte-stuffs a payload containing every reserved delimiter value", func() {
		var buf bytes.Buffer
		w := s101.NewWriter(&buf)
		payload := []byte{0xFE, 0xFF, 0xFD, 0x00, 0x7F}
		Expect(w.WriteEmberPacket(s101.PacketFlags(0, 1), payload)).To(Succeed())

		r := s101.NewReader(&buf)
		f, err := r.ReadFrame()
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Payload()).To(Equal(payload))
	})

	It("byte-stuffs every reserved value from 0xF8 up, not just the three delimiters", func() {
		var buf bytes.Buffer
		w := s101.NewWriter(&buf)
		payload := []byte{0xF8, 0xF9, 0xFA, 0xFB, 0xFC, 0xFD, 0xFE, 0xFF, 0x01}
		Expect(w.WriteEmberPacket(s101.PacketFlags(0, 1), payload)).To(Succeed())

		raw := buf.Bytes()
		for _, b := range []byte{0xF8, 0xF9, 0xFA, 0xFB, 0xFC} {
			Expect(bytes.Contains(raw, []byte{b})).To(BeFalse(), "0x%X must never appear unescaped on the wire", b)
		}

		r := s101.NewReader(&buf)
		f, err := r.ReadFrame()
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Payload()).To(Equal(payload))
	})

	It("rejects a frame whose CRC was corrupted in transit", func() {
		var buf bytes.Buffer
		w := s101.NewWriter(&buf)
		Expect(w.WriteEmberPacket(s101.PacketFlags(0, 1), []byte{0xAA, 0xBB})).To(Succeed())

		raw := buf.Bytes()
		// Flip a payload bit without touching the BOF/EOF delimiters.
		for i, b := range raw {
			if b == 0xAA {
				raw[i] = 0xAB
				break
			}
		}

		r := s101.NewReader(bytes.NewReader(raw))
		_, err := r.ReadFrame()
		Expect(err).To(HaveOccurred())
	})

	It("resynchronizes on the next frame after a truncated one", func() {
		var buf bytes.Buffer
		w := s101.NewWriter(&buf)
		Expect(w.WriteEmberPacket(s101.PacketFlags(0, 1), []byte{0x01})).To(Succeed())
		Expect(w.WriteEmberPacket(s101.PacketFlags(0, 1), []byte{0x02})).To(Succeed())

		// Drop the first frame's EOF so the reader treats the second
		// frame's BOF as a resync point instead of a truncation error.
		raw := buf.Bytes()
		eofIdx := bytes.IndexByte(raw, 0xFF)
		spliced := append(append([]byte(nil), raw[:eofIdx]...), raw[eofIdx+1:]...)

		r := s101.NewReader(bytes.NewReader(spliced))
		f, err := r.ReadFrame()
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Payload()).To(Equal([]byte{0x02}))
	})

	It("round-trips keep-alive request/response frames", func() {
		var buf bytes.Buffer
		k := s101.NewKeepalive(s101.NewWriter(&buf))
		Expect(k.SendRequest()).To(Succeed())
		Expect(k.Respond()).To(Succeed())

		r := s101.NewReader(&buf)
		req, err := r.ReadFrame()
		Expect(err).NotTo(HaveOccurred())
		Expect(req.IsKeepAliveRequest()).To(BeTrue())

		resp, err := r.ReadFrame()
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.IsKeepAliveResponse()).To(BeTrue())
	})
})

var _ = Describe("Reassembler", func() {
	It("reassembles a message split across multiple packets", func() {
		msg := make([]byte, 2500)
		for i := range msg {
			msg[i] = byte(i)
		}
		chunks := s101.SplitPayload(msg)
		Expect(len(chunks)).To(BeNumerically(">", 1))

		var a s101.Reassembler
		var buf bytes.Buffer
		w := s101.NewWriter(&buf)
		for i, c := range chunks {
			Expect(w.WriteEmberPacket(s101.PacketFlags(i, len(chunks)), c)).To(Succeed())
		}

		r := s101.NewReader(&buf)
		var got []byte
		for {
			f, err := r.ReadFrame()
			Expect(err).NotTo(HaveOccurred())
			msgOut, done, err := a.Feed(f)
			Expect(err).NotTo(HaveOccurred())
			if done {
				got = msgOut
				break
			}
		}
		Expect(got).To(Equal(msg))
	})

	It("reports a gap that swallowed a First frame without losing sync", func() {
		var a s101.Reassembler
		var buf bytes.Buffer
		w := s101.NewWriter(&buf)
		Expect(w.WriteEmberPacket(s101.PacketFlags(1, 3), []byte{0x01})).To(Succeed())
		r := s101.NewReader(&buf)
		f, err := r.ReadFrame()
		Expect(err).NotTo(HaveOccurred())

		_, done, err := a.Feed(f)
		Expect(done).To(BeFalse())
		Expect(err).To(HaveOccurred())
	})
})
