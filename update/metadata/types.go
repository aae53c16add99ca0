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

//go:generate protoc --go_out=import_path=$GOPACKAGE:. update_metadata.proto

package metadata

import "fmt"

// InstallOperation_Type enumerates the kinds of install operations a
// DeltaArchiveManifest may carry. Values match the wire encoding used by
// update_engine: callers must not renumber them.
type InstallOperation_Type int32

const (
	InstallOperation_REPLACE    InstallOperation_Type = 0
	InstallOperation_REPLACE_BZ InstallOperation_Type = 1
	InstallOperation_MOVE       InstallOperation_Type = 2
	InstallOperation_BSDIFF     InstallOperation_Type = 3
)

// InstallOperation_Type_name indexes operation type names by their wire value, for histogram
// and report rendering.
var InstallOperation_Type_name = map[int32]string{
	0: "REPLACE",
	1: "REPLACE_BZ",
	2: "MOVE",
	3: "BSDIFF",
}

func (t InstallOperation_Type) String() string {
	if name, ok := InstallOperation_Type_name[int32(t)]; ok {
		return name
	}
	return fmt.Sprintf("InstallOperation_Type(%d)", int32(t))
}

// Enum returns a pointer to a copy of t, for populating optional
// protobuf-style fields in struct literals.
func (t InstallOperation_Type) Enum() *InstallOperation_Type {
	return &t
}

// Extent is a contiguous run of blocks, or a pseudo-extent when
// StartBlock equals PseudoExtentMarker (see the checker package).
type Extent struct {
	StartBlock *uint64
	NumBlocks  *uint64
}

func (m *Extent) GetStartBlock() uint64 {
	if m != nil && m.StartBlock != nil {
		return *m.StartBlock
	}
	return 0
}

func (m *Extent) GetNumBlocks() uint64 {
	if m != nil && m.NumBlocks != nil {
		return *m.NumBlocks
	}
	return 0
}

// PartitionInfo carries the expected size and content hash of a
// partition image, old or new, rootfs or kernel.
type PartitionInfo struct {
	Size *uint64
	Hash []byte
}

func (m *PartitionInfo) HasSize() bool { return m != nil && m.Size != nil }

func (m *PartitionInfo) GetSize() uint64 {
	if m != nil && m.Size != nil {
		return *m.Size
	}
	return 0
}

func (m *PartitionInfo) GetHash() []byte {
	if m != nil {
		return m.Hash
	}
	return nil
}

// InstallOperation describes a single transform from an old partition
// (for delta payloads) to the new one.
type InstallOperation struct {
	Type           *InstallOperation_Type
	SrcExtents     []*Extent
	DstExtents     []*Extent
	SrcLength      *uint64
	DstLength      *uint64
	DataOffset     *uint64
	DataLength     *uint64
	DataSha256Hash []byte
}

func (m *InstallOperation) GetType() InstallOperation_Type {
	if m != nil && m.Type != nil {
		return *m.Type
	}
	return InstallOperation_REPLACE
}

func (m *InstallOperation) GetSrcExtents() []*Extent {
	if m != nil {
		return m.SrcExtents
	}
	return nil
}

func (m *InstallOperation) GetDstExtents() []*Extent {
	if m != nil {
		return m.DstExtents
	}
	return nil
}

func (m *InstallOperation) HasSrcLength() bool { return m != nil && m.SrcLength != nil }
func (m *InstallOperation) HasDstLength() bool { return m != nil && m.DstLength != nil }

func (m *InstallOperation) GetSrcLength() uint64 {
	if m != nil && m.SrcLength != nil {
		return *m.SrcLength
	}
	return 0
}

func (m *InstallOperation) GetDstLength() uint64 {
	if m != nil && m.DstLength != nil {
		return *m.DstLength
	}
	return 0
}

func (m *InstallOperation) HasDataOffset() bool { return m != nil && m.DataOffset != nil }
func (m *InstallOperation) HasDataLength() bool { return m != nil && m.DataLength != nil }

func (m *InstallOperation) GetDataOffset() uint64 {
	if m != nil && m.DataOffset != nil {
		return *m.DataOffset
	}
	return 0
}

func (m *InstallOperation) GetDataLength() uint64 {
	if m != nil && m.DataLength != nil {
		return *m.DataLength
	}
	return 0
}

func (m *InstallOperation) HasDataSha256Hash() bool { return m != nil && len(m.DataSha256Hash) > 0 }

func (m *InstallOperation) GetDataSha256Hash() []byte {
	if m != nil {
		return m.DataSha256Hash
	}
	return nil
}

// Manifest is the top-level DeltaArchiveManifest: everything between the
// header and the data blob section describes how to produce the new
// rootfs and kernel partitions.
type Manifest struct {
	BlockSize               *uint64
	SignaturesOffset        *uint64
	SignaturesSize          *uint64
	OldKernelInfo           *PartitionInfo
	OldRootfsInfo           *PartitionInfo
	NewKernelInfo           *PartitionInfo
	NewRootfsInfo           *PartitionInfo
	InstallOperations       []*InstallOperation
	KernelInstallOperations []*InstallOperation
}

func (m *Manifest) HasBlockSize() bool { return m != nil && m.BlockSize != nil }

func (m *Manifest) GetBlockSize() uint64 {
	if m != nil && m.BlockSize != nil {
		return *m.BlockSize
	}
	return 0
}

func (m *Manifest) HasSignaturesOffset() bool { return m != nil && m.SignaturesOffset != nil }
func (m *Manifest) HasSignaturesSize() bool   { return m != nil && m.SignaturesSize != nil }

func (m *Manifest) GetSignaturesOffset() uint64 {
	if m != nil && m.SignaturesOffset != nil {
		return *m.SignaturesOffset
	}
	return 0
}

func (m *Manifest) GetSignaturesSize() uint64 {
	if m != nil && m.SignaturesSize != nil {
		return *m.SignaturesSize
	}
	return 0
}

func (m *Manifest) GetOldKernelInfo() *PartitionInfo {
	if m != nil {
		return m.OldKernelInfo
	}
	return nil
}

func (m *Manifest) GetOldRootfsInfo() *PartitionInfo {
	if m != nil {
		return m.OldRootfsInfo
	}
	return nil
}

func (m *Manifest) GetNewKernelInfo() *PartitionInfo {
	if m != nil {
		return m.NewKernelInfo
	}
	return nil
}

func (m *Manifest) GetNewRootfsInfo() *PartitionInfo {
	if m != nil {
		return m.NewRootfsInfo
	}
	return nil
}

func (m *Manifest) GetInstallOperations() []*InstallOperation {
	if m != nil {
		return m.InstallOperations
	}
	return nil
}

func (m *Manifest) GetKernelInstallOperations() []*InstallOperation {
	if m != nil {
		return m.KernelInstallOperations
	}
	return nil
}

// Signatures_Signature is a single signed-hash entry.
type Signatures_Signature struct {
	Version *uint32
	Data    []byte
}

func (m *Signatures_Signature) HasVersion() bool { return m != nil && m.Version != nil }

func (m *Signatures_Signature) GetVersion() uint32 {
	if m != nil && m.Version != nil {
		return *m.Version
	}
	return 0
}

func (m *Signatures_Signature) GetData() []byte {
	if m != nil {
		return m.Data
	}
	return nil
}

// Signatures is the trailing signatures block, parsed from the bytes
// found at Manifest.SignaturesOffset/SignaturesSize.
type Signatures struct {
	Signatures []*Signatures_Signature
}
