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

package metadata

// This file is a minimal proto2 wire codec (varint + length-delimited
// fields only) for DeltaArchiveManifest and Signatures. The payload
// parser that would normally decode these messages is an external
// collaborator (protoc-generated, in the real update_engine); since no
// codegen toolchain is available here, the handful of message shapes
// this package needs are encoded/decoded by hand against fixed field
// numbers, following the same tag/varint/length-delimited layout protoc
// would produce.

import (
	"bytes"
	"fmt"
)

const (
	wireVarint = 0
	wireBytes  = 2
)

func putTag(buf *bytes.Buffer, field int, wireType int) {
	putUvarint(buf, uint64(field)<<3|uint64(wireType))
}

func putUvarint(buf *bytes.Buffer, v uint64) {
	for v >= 0x80 {
		buf.WriteByte(byte(v) | 0x80)
		v >>= 7
	}
	buf.WriteByte(byte(v))
}

func putVarintField(buf *bytes.Buffer, field int, v uint64) {
	putTag(buf, field, wireVarint)
	putUvarint(buf, v)
}

func putBytesField(buf *bytes.Buffer, field int, data []byte) {
	putTag(buf, field, wireBytes)
	putUvarint(buf, uint64(len(data)))
	buf.Write(data)
}

// readUvarint reads a base-128 varint starting at data[pos], returning
// the value and the position just past it.
func readUvarint(data []byte, pos int) (uint64, int, error) {
	var v uint64
	var shift uint
	for {
		if pos >= len(data) {
			return 0, 0, fmt.Errorf("metadata: truncated varint")
		}
		b := data[pos]
		pos++
		v |= uint64(b&0x7f) << shift
		if b < 0x80 {
			return v, pos, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, 0, fmt.Errorf("metadata: varint overflow")
		}
	}
}

// field is a single decoded (field number, wire type, value) tuple;
// u64 holds the varint value for wireVarint fields, and data the
// field's bytes for wireBytes fields.
type field struct {
	num  int
	wire int
	u64  uint64
	data []byte
}

func decodeFields(data []byte) ([]field, error) {
	var fields []field
	pos := 0
	for pos < len(data) {
		tag, next, err := readUvarint(data, pos)
		if err != nil {
			return nil, err
		}
		pos = next

		num := int(tag >> 3)
		wire := int(tag & 7)

		switch wire {
		case wireVarint:
			v, next, err := readUvarint(data, pos)
			if err != nil {
				return nil, err
			}
			pos = next
			fields = append(fields, field{num: num, wire: wire, u64: v})
		case wireBytes:
			l, next, err := readUvarint(data, pos)
			if err != nil {
				return nil, err
			}
			pos = next
			if next+int(l) > len(data) || l > uint64(len(data)) {
				return nil, fmt.Errorf("metadata: field %d: length-delimited value overruns message", num)
			}
			end := pos + int(l)
			fields = append(fields, field{num: num, wire: wire, data: data[pos:end]})
			pos = end
		default:
			return nil, fmt.Errorf("metadata: field %d: unsupported wire type %d", num, wire)
		}
	}
	return fields, nil
}

const (
	extentFieldStartBlock = 1
	extentFieldNumBlocks  = 2
)

func (m *Extent) Marshal() []byte {
	buf := &bytes.Buffer{}
	if m.StartBlock != nil {
		putVarintField(buf, extentFieldStartBlock, *m.StartBlock)
	}
	if m.NumBlocks != nil {
		putVarintField(buf, extentFieldNumBlocks, *m.NumBlocks)
	}
	return buf.Bytes()
}

func (m *Extent) Unmarshal(data []byte) error {
	fields, err := decodeFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		switch f.num {
		case extentFieldStartBlock:
			v := f.u64
			m.StartBlock = &v
		case extentFieldNumBlocks:
			v := f.u64
			m.NumBlocks = &v
		}
	}
	return nil
}

const (
	partitionInfoFieldSize = 1
	partitionInfoFieldHash = 2
)

func (m *PartitionInfo) Marshal() []byte {
	buf := &bytes.Buffer{}
	if m.Size != nil {
		putVarintField(buf, partitionInfoFieldSize, *m.Size)
	}
	if m.Hash != nil {
		putBytesField(buf, partitionInfoFieldHash, m.Hash)
	}
	return buf.Bytes()
}

func (m *PartitionInfo) Unmarshal(data []byte) error {
	fields, err := decodeFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		switch f.num {
		case partitionInfoFieldSize:
			v := f.u64
			m.Size = &v
		case partitionInfoFieldHash:
			m.Hash = append([]byte(nil), f.data...)
		}
	}
	return nil
}

const (
	opFieldType           = 1
	opFieldSrcExtents     = 2
	opFieldDstExtents     = 3
	opFieldSrcLength      = 4
	opFieldDstLength      = 5
	opFieldDataOffset     = 6
	opFieldDataLength     = 7
	opFieldDataSha256Hash = 8
)

func (m *InstallOperation) Marshal() []byte {
	buf := &bytes.Buffer{}
	if m.Type != nil {
		putVarintField(buf, opFieldType, uint64(*m.Type))
	}
	for _, e := range m.SrcExtents {
		putBytesField(buf, opFieldSrcExtents, e.Marshal())
	}
	for _, e := range m.DstExtents {
		putBytesField(buf, opFieldDstExtents, e.Marshal())
	}
	if m.SrcLength != nil {
		putVarintField(buf, opFieldSrcLength, *m.SrcLength)
	}
	if m.DstLength != nil {
		putVarintField(buf, opFieldDstLength, *m.DstLength)
	}
	if m.DataOffset != nil {
		putVarintField(buf, opFieldDataOffset, *m.DataOffset)
	}
	if m.DataLength != nil {
		putVarintField(buf, opFieldDataLength, *m.DataLength)
	}
	if m.DataSha256Hash != nil {
		putBytesField(buf, opFieldDataSha256Hash, m.DataSha256Hash)
	}
	return buf.Bytes()
}

func (m *InstallOperation) Unmarshal(data []byte) error {
	fields, err := decodeFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		switch f.num {
		case opFieldType:
			t := InstallOperation_Type(f.u64)
			m.Type = &t
		case opFieldSrcExtents:
			e := &Extent{}
			if err := e.Unmarshal(f.data); err != nil {
				return err
			}
			m.SrcExtents = append(m.SrcExtents, e)
		case opFieldDstExtents:
			e := &Extent{}
			if err := e.Unmarshal(f.data); err != nil {
				return err
			}
			m.DstExtents = append(m.DstExtents, e)
		case opFieldSrcLength:
			v := f.u64
			m.SrcLength = &v
		case opFieldDstLength:
			v := f.u64
			m.DstLength = &v
		case opFieldDataOffset:
			v := f.u64
			m.DataOffset = &v
		case opFieldDataLength:
			v := f.u64
			m.DataLength = &v
		case opFieldDataSha256Hash:
			m.DataSha256Hash = append([]byte(nil), f.data...)
		}
	}
	return nil
}

const (
	manifestFieldBlockSize               = 1
	manifestFieldSignaturesOffset        = 2
	manifestFieldSignaturesSize          = 3
	manifestFieldOldKernelInfo           = 4
	manifestFieldOldRootfsInfo           = 5
	manifestFieldNewKernelInfo           = 6
	manifestFieldNewRootfsInfo           = 7
	manifestFieldInstallOperations       = 8
	manifestFieldKernelInstallOperations = 9
)

// Marshal serializes the manifest to its wire form.
func (m *Manifest) Marshal() []byte {
	buf := &bytes.Buffer{}
	if m.BlockSize != nil {
		putVarintField(buf, manifestFieldBlockSize, *m.BlockSize)
	}
	if m.SignaturesOffset != nil {
		putVarintField(buf, manifestFieldSignaturesOffset, *m.SignaturesOffset)
	}
	if m.SignaturesSize != nil {
		putVarintField(buf, manifestFieldSignaturesSize, *m.SignaturesSize)
	}
	if m.OldKernelInfo != nil {
		putBytesField(buf, manifestFieldOldKernelInfo, m.OldKernelInfo.Marshal())
	}
	if m.OldRootfsInfo != nil {
		putBytesField(buf, manifestFieldOldRootfsInfo, m.OldRootfsInfo.Marshal())
	}
	if m.NewKernelInfo != nil {
		putBytesField(buf, manifestFieldNewKernelInfo, m.NewKernelInfo.Marshal())
	}
	if m.NewRootfsInfo != nil {
		putBytesField(buf, manifestFieldNewRootfsInfo, m.NewRootfsInfo.Marshal())
	}
	for _, op := range m.InstallOperations {
		putBytesField(buf, manifestFieldInstallOperations, op.Marshal())
	}
	for _, op := range m.KernelInstallOperations {
		putBytesField(buf, manifestFieldKernelInstallOperations, op.Marshal())
	}
	return buf.Bytes()
}

// Unmarshal parses a wire-encoded manifest into m.
func (m *Manifest) Unmarshal(data []byte) error {
	fields, err := decodeFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		switch f.num {
		case manifestFieldBlockSize:
			v := f.u64
			m.BlockSize = &v
		case manifestFieldSignaturesOffset:
			v := f.u64
			m.SignaturesOffset = &v
		case manifestFieldSignaturesSize:
			v := f.u64
			m.SignaturesSize = &v
		case manifestFieldOldKernelInfo:
			pi := &PartitionInfo{}
			if err := pi.Unmarshal(f.data); err != nil {
				return err
			}
			m.OldKernelInfo = pi
		case manifestFieldOldRootfsInfo:
			pi := &PartitionInfo{}
			if err := pi.Unmarshal(f.data); err != nil {
				return err
			}
			m.OldRootfsInfo = pi
		case manifestFieldNewKernelInfo:
			pi := &PartitionInfo{}
			if err := pi.Unmarshal(f.data); err != nil {
				return err
			}
			m.NewKernelInfo = pi
		case manifestFieldNewRootfsInfo:
			pi := &PartitionInfo{}
			if err := pi.Unmarshal(f.data); err != nil {
				return err
			}
			m.NewRootfsInfo = pi
		case manifestFieldInstallOperations:
			op := &InstallOperation{}
			if err := op.Unmarshal(f.data); err != nil {
				return err
			}
			m.InstallOperations = append(m.InstallOperations, op)
		case manifestFieldKernelInstallOperations:
			op := &InstallOperation{}
			if err := op.Unmarshal(f.data); err != nil {
				return err
			}
			m.KernelInstallOperations = append(m.KernelInstallOperations, op)
		}
	}
	return nil
}

const (
	sigFieldVersion = 1
	sigFieldData    = 2
	sigsFieldEntry  = 1
)

func (m *Signatures_Signature) Marshal() []byte {
	buf := &bytes.Buffer{}
	if m.Version != nil {
		putVarintField(buf, sigFieldVersion, uint64(*m.Version))
	}
	if m.Data != nil {
		putBytesField(buf, sigFieldData, m.Data)
	}
	return buf.Bytes()
}

func (m *Signatures_Signature) Unmarshal(data []byte) error {
	fields, err := decodeFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		switch f.num {
		case sigFieldVersion:
			v := uint32(f.u64)
			m.Version = &v
		case sigFieldData:
			m.Data = append([]byte(nil), f.data...)
		}
	}
	return nil
}

// Marshal serializes the signatures block to its wire form.
func (m *Signatures) Marshal() []byte {
	buf := &bytes.Buffer{}
	for _, s := range m.Signatures {
		putBytesField(buf, sigsFieldEntry, s.Marshal())
	}
	return buf.Bytes()
}

// Unmarshal parses a wire-encoded signatures block into m.
func (m *Signatures) Unmarshal(data []byte) error {
	fields, err := decodeFields(data)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if f.num != sigsFieldEntry {
			continue
		}
		s := &Signatures_Signature{}
		if err := s.Unmarshal(f.data); err != nil {
			return err
		}
		m.Signatures = append(m.Signatures, s)
	}
	return nil
}
