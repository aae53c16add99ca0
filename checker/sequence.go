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

import (
	"fmt"

	"github.com/coreos/update-payload-checker/update/metadata"
)

// sequenceParams bundles everything checkOperationSequence needs about
// one partition's (rootfs or kernel) pair of old/new images.
type sequenceParams struct {
	isKernel bool

	oldFsSize     uint64
	newFsSize     uint64
	newUsableSize uint64

	prevDataOffset uint64
	allowSignature bool

	readBlob func(length uint64) ([]byte, error)
}

// checkOperationSequence walks one operation list in manifest order,
// allocating fresh block counters for this partition, dispatching each
// operation to checkOperation, and folding the per-operation results
// into a report section of histograms and totals.
//
// It returns the total bytes of data blob consumed, so the caller can
// advance its own running data_offset cursor into the next sequence.
func checkOperationSequence(ops []*metadata.InstallOperation, p sequenceParams, cfg Config, payloadType PayloadType, report *Report) (uint64, error) {
	blockSize := cfg.blockSize()

	var oldCounters blockCounters
	if p.oldFsSize > 0 {
		oldCounters = newBlockCounters(p.oldFsSize, blockSize)
	}
	newCounters := newBlockCounters(p.newUsableSize, blockSize)

	var blobCounts blobHashCounts
	opCounts := newOpHistogram()
	opBlobTotals := map[metadata.InstallOperation_Type]uint64{}

	cursor := p.prevDataOffset
	var totalDataUsed uint64

	for i, op := range ops {
		path := opName(p.isKernel, i)
		opType := op.GetType()

		switch opType {
		case metadata.InstallOperation_REPLACE, metadata.InstallOperation_REPLACE_BZ,
			metadata.InstallOperation_MOVE, metadata.InstallOperation_BSDIFF:
		default:
			return 0, errf(path, "unknown operation type %d", int32(opType))
		}

		params := opCheckParams{
			cfg:            cfg,
			payloadType:    payloadType,
			oldUsableSize:  p.oldFsSize,
			newUsableSize:  p.newUsableSize,
			oldCounters:    oldCounters,
			newCounters:    newCounters,
			blobCounts:     &blobCounts,
			allowSignature: p.allowSignature,
			isLast:         i == len(ops)-1,
			readBlob:       p.readBlob,
		}

		n, err := checkOperation(op, path, params, cursor)
		if err != nil {
			return 0, err
		}

		opCounts.Add(opType)
		if opType != metadata.InstallOperation_MOVE {
			opBlobTotals[opType] += n
		}

		cursor += n
		totalDataUsed += n
	}

	partName := "rootfs"
	if p.isKernel {
		partName = "kernel"
	}
	report.AddSection(fmt.Sprintf("%s operations", partName))
	report.AddField("total operations", len(ops))
	report.AddField("operation types", opCounts.String())

	totalBlobs := blobCounts.hashed + blobCounts.unhashed + blobCounts.signature
	report.AddField("total data blobs", totalBlobs)
	report.AddField("blob hash status", fmt.Sprintf("hashed: %d, unhashed: %d, signature: %d", blobCounts.hashed, blobCounts.unhashed, blobCounts.signature))
	report.AddField("total blob size", bytesToHumanReadable(totalDataUsed))
	report.AddField("blob size by type", formatCounts(opBlobTotals, func(t metadata.InstallOperation_Type) string { return t.String() }))

	if oldCounters != nil {
		report.AddField("old block read histogram", formatCounts(oldCounters.countHistogram(), identityIntName))
	}

	newFsBlocks := (p.newFsSize + blockSize - 1) / blockSize
	if newFsBlocks > uint64(len(newCounters)) {
		newFsBlocks = uint64(len(newCounters))
	}
	writeHist := blockCounters(newCounters[:newFsBlocks]).countHistogram()
	report.AddField("new block write histogram", formatCounts(writeHist, identityIntName))

	if payloadType == PayloadTypeFull {
		if len(writeHist) != 1 || writeHist[1] == 0 {
			return 0, errf(path0(p.isKernel), "full payload must write every new block exactly once, histogram was %v", writeHist)
		}
	}

	return totalDataUsed, nil
}

func path0(isKernel bool) string {
	return opsListName(isKernel)
}

func identityIntName(n int) string {
	return fmt.Sprintf("%d", n)
}

func (c blockCounters) countHistogram() map[int]int {
	out := map[int]int{}
	for _, n := range c {
		out[int(n)]++
	}
	return out
}
