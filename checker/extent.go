// Copyright 2016 CoreOS, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package checker

import "github.com/coreos/update-payload-checker/update/metadata"

// blockCounters tracks how many times each block of a partition has
// been referenced by an extent sequence. Widened to uint16 (the
// design notes permit widening beyond the reference implementation's
// byte-sized counters) since a pathological but otherwise well-formed
// payload could reference the same block more than 255 times.
type blockCounters []uint16

func newBlockCounters(usableSize, blockSize uint64) blockCounters {
	n := (usableSize + blockSize - 1) / blockSize
	return make(blockCounters, n)
}

func (c blockCounters) add(start, num uint64) {
	for b := start; b < start+num && b < uint64(len(c)); b++ {
		c[b]++
	}
}

// checkExtents walks a sequence of extents belonging to one operation,
// validating each and tallying block usage into counters. allowPseudo
// permits ordinary pseudo-extents (e.g. a MOVE's padding); allowSignature
// additionally permits a single pseudo-extent to stand in for the whole
// sequence, the shape used by the trailing fake signature operation. It
// returns the total num_blocks summed across the sequence, including any
// pseudo-extent's num_blocks — that inclusion is deliberate, not a bug:
// see the open question in the design notes about how it flows into
// length bounds for the signature operation.
func checkExtents(path string, extents []*metadata.Extent, usableSize, blockSize uint64, allowPseudo, allowSignature bool, counters blockCounters) (uint64, error) {
	isSoleSignatureExtent := allowSignature && len(extents) == 1

	var total uint64
	for i, e := range extents {
		name := extentName(path, "", i)

		if e.StartBlock == nil {
			return 0, errf(name, "missing start_block")
		}
		if e.NumBlocks == nil {
			return 0, errf(name, "missing num_blocks")
		}

		start := e.GetStartBlock()
		num := e.GetNumBlocks()

		if num == 0 {
			return 0, errf(name, "num_blocks must be > 0")
		}

		if start == PseudoExtentMarker {
			if !allowPseudo && !isSoleSignatureExtent {
				return 0, errf(name, "pseudo-extent not allowed here")
			}
			total += num
			continue
		}

		if (start+num)*blockSize > usableSize {
			return 0, errf(name, "extent [%d, %d) exceeds usable size %d blocks", start, start+num, usableSize/blockSize)
		}

		counters.add(start, num)
		total += num
	}

	return total, nil
}
