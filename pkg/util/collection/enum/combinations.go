// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package enum

import "github.com/AbdulRahmanTaleb/IronMaskPlus/pkg/util/math"

// Combinations returns an enumerator over every k-element subset of items,
// in lexicographic order of index, the way Python's itertools.combinations
// does (the original analyzer this package's caller reimplements was built
// around exactly that). Subsets are generated lazily, index array in hand,
// rather than precomputed, since k can run up to a circuit's full wire
// count and C(n,k) can be large.
func Combinations[T any](items []T, k uint) Enumerator[[]T] {
	n := uint(len(items))
	if k > n {
		return Finite[[]T]()
	}

	idx := make([]uint, k)
	for i := range idx {
		idx[i] = uint(i)
	}

	return &combinationEnumerator[T]{items: items, idx: idx, n: n, k: k, remaining: math.Choose(n, k)}
}

type combinationEnumerator[T any] struct {
	items     []T
	idx       []uint
	n, k      uint
	remaining uint64
	started   bool
}

// HasNext checks whether or not there are any items remaining to visit.
func (p *combinationEnumerator[T]) HasNext() bool {
	return p.remaining > 0
}

// Count returns the number of combinations left in this enumeration.
func (p *combinationEnumerator[T]) Count() uint {
	return uint(p.remaining)
}

// Next returns the next combination, and advances the iterator.
func (p *combinationEnumerator[T]) Next() []T {
	if p.k == 0 {
		p.remaining--
		return []T{}
	}

	if !p.started {
		p.started = true
	} else {
		p.advance()
	}

	p.remaining--

	return p.extract()
}

// Nth returns the nth combination in this iterator, mutating the iterator
// to skip past it.
func (p *combinationEnumerator[T]) Nth(n uint) []T {
	for i := uint(0); i < n; i++ {
		p.Next()
	}

	return p.Next()
}

func (p *combinationEnumerator[T]) extract() []T {
	out := make([]T, p.k)
	for i, j := range p.idx {
		out[i] = p.items[j]
	}

	return out
}

// advance steps idx to the next combination in lexicographic order, using
// the standard "rightmost incrementable position" algorithm.
func (p *combinationEnumerator[T]) advance() {
	i := int(p.k) - 1
	for i >= 0 && p.idx[i] == p.n-p.k+uint(i) {
		i--
	}

	if i < 0 {
		return
	}

	p.idx[i]++

	for j := i + 1; j < int(p.k); j++ {
		p.idx[j] = p.idx[j-1] + 1
	}
}
