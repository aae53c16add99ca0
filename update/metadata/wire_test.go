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

import (
	"bytes"
	"testing"
)

func u64p(v uint64) *uint64 { return &v }
func u32p(v uint32) *uint32 { return &v }

func TestManifestRoundTrip(t *testing.T) {
	want := &Manifest{
		BlockSize:        u64p(4096),
		SignaturesOffset: u64p(12288),
		SignaturesSize:   u64p(256),
		NewKernelInfo:    &PartitionInfo{Size: u64p(4096), Hash: bytes.Repeat([]byte{0xaa}, 32)},
		NewRootfsInfo:    &PartitionInfo{Size: u64p(8192), Hash: bytes.Repeat([]byte{0xbb}, 32)},
		InstallOperations: []*InstallOperation{
			{
				Type:       InstallOperation_REPLACE.Enum(),
				DstExtents: []*Extent{{StartBlock: u64p(0), NumBlocks: u64p(2)}},
				DataOffset: u64p(0),
				DataLength: u64p(8192),
			},
		},
	}

	got := &Manifest{}
	if err := got.Unmarshal(want.Marshal()); err != nil {
		t.Fatal(err)
	}

	if got.GetBlockSize() != 4096 {
		t.Errorf("block_size = %d, want 4096", got.GetBlockSize())
	}
	if got.GetSignaturesOffset() != 12288 || got.GetSignaturesSize() != 256 {
		t.Errorf("signatures = %d/%d, want 12288/256",
			got.GetSignaturesOffset(), got.GetSignaturesSize())
	}
	if got.GetNewKernelInfo().GetSize() != 4096 {
		t.Errorf("new_kernel_info.size = %d, want 4096", got.GetNewKernelInfo().GetSize())
	}
	if len(got.InstallOperations) != 1 {
		t.Fatalf("install_operations: got %d, want 1", len(got.InstallOperations))
	}
	op := got.InstallOperations[0]
	if op.GetType() != InstallOperation_REPLACE {
		t.Errorf("op type = %v, want REPLACE", op.GetType())
	}
	if len(op.DstExtents) != 1 || op.DstExtents[0].GetNumBlocks() != 2 {
		t.Errorf("dst_extents mismatch: %+v", op.DstExtents)
	}
}

func TestOldKernelPresence(t *testing.T) {
	m := &Manifest{}
	if m.HasSignaturesOffset() {
		t.Error("fresh manifest should have no signatures_offset")
	}
	if m.GetOldKernelInfo() != nil {
		t.Error("fresh manifest should have no old_kernel_info")
	}
}
