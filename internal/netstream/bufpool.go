// File: internal/netstream/bufpool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Scratch buffers for stream reads, bucketed by power-of-two size class.

package netstream

import (
	"math/bits"
	"sync"
)

const (
	minClass   = 9  // 512 B
	maxClass   = 20 // 1 MiB
	perClass   = 64
	classCount = maxClass - minClass + 1
)

type bufferPool struct {
	mu      sync.Mutex
	classes [classCount]chan []byte
}

var scratch = &bufferPool{}

func class(n int) int {
	c := bits.Len(uint(n - 1))
	if c < minClass {
		c = minClass
	}
	return c
}

func (p *bufferPool) channel(c int) chan []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch := p.classes[c-minClass]
	if ch == nil {
		ch = make(chan []byte, perClass)
		p.classes[c-minClass] = ch
	}
	return ch
}

// Get returns a buffer of length n. Sizes above the largest class are
// allocated directly.
func (p *bufferPool) Get(n int) []byte {
	c := class(n)
	if c > maxClass {
		return make([]byte, n)
	}
	select {
	case buf := <-p.channel(c):
		return buf[:n]
	default:
		return make([]byte, n, 1<<c)
	}
}

// Put recycles buf when its capacity is an exact size class.
func (p *bufferPool) Put(buf []byte) {
	c := bits.Len(uint(cap(buf))) - 1
	if c < minClass || c > maxClass || cap(buf) != 1<<c {
		return
	}
	select {
	case p.channel(c) <- buf[:0]:
	default:
	}
}
