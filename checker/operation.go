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
	"bytes"
	"crypto/sha256"

	"github.com/coreos/update-payload-checker/update/metadata"
)

// blobHashCounts tallies how each data-bearing operation justified
// carrying a blob: a real content hash, the one unhashed fake
// signature operation, or (only when allow_unhashed) an operator
// opting out of hashing.
type blobHashCounts struct {
	hashed, unhashed, signature int
}

// opCheckParams bundles the per-sequence context an operation check
// needs but does not own, so the operation-sequence loop can pass it
// down without every call threading a dozen positional arguments.
type opCheckParams struct {
	cfg            Config
	payloadType    PayloadType
	oldUsableSize  uint64
	newUsableSize  uint64
	oldCounters    blockCounters
	newCounters    blockCounters
	blobCounts     *blobHashCounts
	allowSignature bool
	isLast         bool

	// readBlob reads the next length bytes from the payload's data
	// section. Operations are processed in manifest order with a
	// strictly contiguous data_offset, so "next length bytes" is
	// always equivalent to "the bytes at this operation's
	// data_offset" without needing random access into the stream.
	readBlob func(length uint64) ([]byte, error)
}

// checkOperation validates a single install operation against p,
// returning the number of data bytes it consumes (for the caller's
// running data_offset cursor) so long as it satisfies every structural
// and type-specific rule in play.
func checkOperation(op *metadata.InstallOperation, path string, p opCheckParams, prevDataOffset uint64) (uint64, error) {
	blockSize := p.cfg.blockSize()
	opType := op.GetType()

	totalSrc, err := checkExtents(subName(path, "src_extents"), op.GetSrcExtents(), p.oldUsableSize, blockSize, true, false, p.oldCounters)
	if err != nil {
		return 0, err
	}

	dstAllowPseudo := p.cfg.disabled(CheckDstPseudoExtents)
	dstAllowSignature := p.allowSignature && p.isLast && opType == metadata.InstallOperation_REPLACE
	totalDst, err := checkExtents(subName(path, "dst_extents"), op.GetDstExtents(), p.newUsableSize, blockSize, dstAllowPseudo, dstAllowSignature, p.newCounters)
	if err != nil {
		return 0, err
	}

	isSignatureShape := dstAllowSignature && len(op.GetDstExtents()) == 1 &&
		op.GetDstExtents()[0].GetStartBlock() == PseudoExtentMarker

	if len(op.GetDstExtents()) == 0 {
		return 0, errf(subName(path, "dst_extents"), "must be non-empty")
	}

	hasDataOffset := op.HasDataOffset()
	hasDataLength := op.HasDataLength()
	if hasDataOffset != hasDataLength {
		return 0, errf(path, "data_offset and data_length must be jointly present or absent")
	}

	if op.HasSrcLength() {
		if err := checkLengthFitsBlocks(subName(path, "src_length"), op.GetSrcLength(), totalSrc, blockSize); err != nil {
			return 0, err
		}
	}
	if op.HasDstLength() {
		if err := checkLengthFitsBlocks(subName(path, "dst_length"), op.GetDstLength(), totalDst, blockSize); err != nil {
			return 0, err
		}
	}

	// The data section is read sequentially regardless of whether its
	// hash is checked, so the cursor stays aligned for the next
	// operation's contiguity check.
	var blob []byte
	if hasDataLength {
		var err error
		blob, err = p.readBlob(op.GetDataLength())
		if err != nil {
			return 0, errf(path, "reading data blob: %v", err)
		}
	}

	if op.HasDataSha256Hash() {
		if !hasDataOffset {
			return 0, errf(path, "data_sha256_hash present without data_offset")
		}
		sum := sha256.Sum256(blob)
		if !bytes.Equal(sum[:], op.GetDataSha256Hash()) {
			return 0, errf(path, "data_sha256_hash %x does not match actual hash %x", op.GetDataSha256Hash(), sum)
		}
		p.blobCounts.hashed++
	} else if hasDataOffset {
		switch {
		case isSignatureShape:
			p.blobCounts.signature++
		case p.cfg.AllowUnhashed:
			p.blobCounts.unhashed++
		default:
			return 0, errf(path, "data present without data_sha256_hash and allow_unhashed is not set")
		}
	}

	if hasDataOffset && op.GetDataOffset() != prevDataOffset {
		return 0, errf(path, "data_offset %d is not contiguous with previous operation (want %d)", op.GetDataOffset(), prevDataOffset)
	}

	if err := checkOperationType(op, path, opType, totalSrc, totalDst, blockSize, p); err != nil {
		return 0, err
	}

	if p.payloadType == PayloadTypeFull && opType != metadata.InstallOperation_REPLACE && opType != metadata.InstallOperation_REPLACE_BZ {
		return 0, errf(path, "operation type %s not allowed in a full payload", opType)
	}

	if hasDataLength {
		return op.GetDataLength(), nil
	}
	return 0, nil
}

func checkOperationType(op *metadata.InstallOperation, path string, opType metadata.InstallOperation_Type, totalSrc, totalDst, blockSize uint64, p opCheckParams) error {
	switch opType {
	case metadata.InstallOperation_REPLACE, metadata.InstallOperation_REPLACE_BZ:
		if len(op.GetSrcExtents()) != 0 {
			return errf(path, "%s operation must not have src_extents", opType)
		}
		if !op.HasDataLength() {
			return errf(path, "%s operation requires data_length", opType)
		}
		if opType == metadata.InstallOperation_REPLACE {
			return checkLengthFitsBlocks(path, op.GetDataLength(), totalDst, blockSize)
		}
		if op.GetDataLength() >= totalDst*blockSize {
			return errf(path, "REPLACE_BZ data_length %d must be strictly less than %d", op.GetDataLength(), totalDst*blockSize)
		}
		return nil

	case metadata.InstallOperation_MOVE:
		if op.HasDataOffset() || op.HasDataLength() {
			return errf(path, "MOVE operation must not carry data_offset/data_length")
		}
		if totalSrc != totalDst {
			return errf(path, "MOVE src block count %d does not match dst block count %d", totalSrc, totalDst)
		}
		if !p.cfg.disabled(CheckMoveSameSrcDstBlock) {
			return checkMoveBlocksDiffer(op.GetSrcExtents(), op.GetDstExtents(), path)
		}
		return nil

	case metadata.InstallOperation_BSDIFF:
		if !op.HasDataLength() {
			return errf(path, "BSDIFF operation requires data_length")
		}
		if op.GetDataLength() >= totalDst*blockSize {
			return errf(path, "BSDIFF data_length %d must be strictly less than %d", op.GetDataLength(), totalDst*blockSize)
		}
		return nil

	default:
		return errf(path, "unknown operation type %d", int32(opType))
	}
}

func checkLengthFitsBlocks(path string, length, totalBlocks, blockSize uint64) error {
	if totalBlocks == 0 {
		return errf(path, "length %d present but no blocks were allocated", length)
	}
	lower := (totalBlocks - 1) * blockSize
	upper := totalBlocks * blockSize
	if length <= lower || length > upper {
		return errf(path, "length %d does not fit %d blocks of size %d", length, totalBlocks, blockSize)
	}
	return nil
}

// checkMoveBlocksDiffer walks src and dst extents in lockstep,
// comparing the physical block addressed at each logical position.
// Since both cursors advance by the same step within one matched
// segment, the addresses differ throughout the segment iff they
// differ at its start — so each segment needs only one comparison,
// not one per block.
func checkMoveBlocksDiffer(src, dst []*metadata.Extent, path string) error {
	si, di := 0, 0
	var sStart, sRem, dStart, dRem uint64

	for {
		if sRem == 0 {
			if si >= len(src) {
				break
			}
			sStart = src[si].GetStartBlock()
			sRem = src[si].GetNumBlocks()
			si++
		}
		if dRem == 0 {
			if di >= len(dst) {
				break
			}
			dStart = dst[di].GetStartBlock()
			dRem = dst[di].GetNumBlocks()
			di++
		}

		step := sRem
		if dRem < step {
			step = dRem
		}
		if step == 0 {
			break
		}

		if sStart == dStart {
			return errf(path, "MOVE src block %d equals dst block %d at the same position", sStart, dStart)
		}

		sStart += step
		dStart += step
		sRem -= step
		dRem -= step
	}

	if sRem != 0 || dRem != 0 || si < len(src) || di < len(dst) {
		return errf(path, "MOVE src_extents and dst_extents did not exhaust together")
	}
	return nil
}
