// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package policy

import (
	"math"
	"math/rand"
)

// layer is a fully connected layer with row-major weights (Out x In).
type layer struct {
	In, Out int
	W       []float64
	B       []float64
}

func newLayer(in, out int, rng *rand.Rand) layer {
	l := layer{
		In:  in,
		Out: out,
		W:   make([]float64, in*out),
		B:   make([]float64, out),
	}
	// Xavier uniform
	limit := math.Sqrt(6.0 / float64(in+out))
	for i := range l.W {
		l.W[i] = (rng.Float64()*2 - 1) * limit
	}
	return l
}

func (l *layer) apply(x, out []float64) {
	for o := 0; o < l.Out; o++ {
		sum := l.B[o]
		row := l.W[o*l.In : (o+1)*l.In]
		for i, xi := range x {
			sum += row[i] * xi
		}
		out[o] = sum
	}
}

// mlp is a stack of layers with ReLU between them and a linear head.
type mlp struct {
	layers []layer
}

// newMLP builds in -> hidden -> hidden -> out.
func newMLP(in, hidden, out int, rng *rand.Rand) mlp {
	return mlp{layers: []layer{
		newLayer(in, hidden, rng),
		newLayer(hidden, hidden, rng),
		newLayer(hidden, out, rng),
	}}
}

// forward returns the activations of every layer. acts[0] is the input,
// acts[len] is the linear head output; hidden activations are post-ReLU.
func (m *mlp) forward(x []float64) [][]float64 {
	acts := make([][]float64, len(m.layers)+1)
	acts[0] = x
	for i := range m.layers {
		l := &m.layers[i]
		out := make([]float64, l.Out)
		l.apply(acts[i], out)
		if i < len(m.layers)-1 {
			for j, v := range out {
				if v < 0 {
					out[j] = 0
				}
			}
		}
		acts[i+1] = out
	}
	return acts
}

// output runs a forward pass and returns only the head output.
func (m *mlp) output(x []float64) []float64 {
	acts := m.forward(x)
	return acts[len(acts)-1]
}

// backward accumulates parameter gradients into grad for one sample given
// the activations of its forward pass and dL/d(head output).
func (m *mlp) backward(acts [][]float64, gradOut []float64, grad *mlp) {
	g := gradOut
	for li := len(m.layers) - 1; li >= 0; li-- {
		l := &m.layers[li]
		gl := &grad.layers[li]
		in := acts[li]

		var gIn []float64
		if li > 0 {
			gIn = make([]float64, l.In)
		}
		for o := 0; o < l.Out; o++ {
			gv := g[o]
			if gv == 0 {
				continue
			}
			gl.B[o] += gv
			row := l.W[o*l.In : (o+1)*l.In]
			grow := gl.W[o*l.In : (o+1)*l.In]
			for i, xi := range in {
				grow[i] += gv * xi
				if gIn != nil {
					gIn[i] += row[i] * gv
				}
			}
		}
		if li == 0 {
			return
		}
		// ReLU mask: post-activation zero means the unit was inactive.
		for i, a := range in {
			if a <= 0 {
				gIn[i] = 0
			}
		}
		g = gIn
	}
}

// zeros returns an mlp of the same shape with all parameters zero.
func (m *mlp) zeros() mlp {
	out := mlp{layers: make([]layer, len(m.layers))}
	for i, l := range m.layers {
		out.layers[i] = layer{In: l.In, Out: l.Out, W: make([]float64, len(l.W)), B: make([]float64, len(l.B))}
	}
	return out
}

// clone deep-copies the parameters.
func (m *mlp) clone() mlp {
	out := mlp{layers: make([]layer, len(m.layers))}
	for i, l := range m.layers {
		out.layers[i] = layer{
			In:  l.In,
			Out: l.Out,
			W:   append([]float64(nil), l.W...),
			B:   append([]float64(nil), l.B...),
		}
	}
	return out
}

// params returns the parameter slices in a stable order.
func (m *mlp) params() [][]float64 {
	out := make([][]float64, 0, 2*len(m.layers))
	for i := range m.layers {
		out = append(out, m.layers[i].W, m.layers[i].B)
	}
	return out
}

// softmax returns a numerically stable softmax and log-sum-exp of z.
func softmax(z []float64) (p []float64, lse float64) {
	maxZ := math.Inf(-1)
	for _, v := range z {
		if v > maxZ {
			maxZ = v
		}
	}
	var sum float64
	p = make([]float64, len(z))
	for i, v := range z {
		p[i] = math.Exp(v - maxZ)
		sum += p[i]
	}
	for i := range p {
		p[i] /= sum
	}
	return p, maxZ + math.Log(sum)
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
