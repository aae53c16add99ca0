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

// manifestInfo is the state the manifest check exports for the driver
// and the rest of the checks to consume.
type manifestInfo struct {
	sigsOffset uint64
	sigsSize   uint64
	hasSigs    bool

	oldRootfsFsSize uint64
	oldKernelFsSize uint64
	newRootfsFsSize uint64
	newKernelFsSize uint64

	payloadType PayloadType
}

func isPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

// checkManifest validates m's top-level fields and determines the
// payload type, recording a "manifest" section into report.
func checkManifest(m *metadata.Manifest, cfg Config, report *Report) (manifestInfo, error) {
	var info manifestInfo
	report.AddSection("manifest")

	if !m.HasBlockSize() {
		return info, errf("manifest.block_size", "missing")
	}
	if !isPowerOfTwo(cfg.blockSize()) {
		return info, errf("manifest.block_size", "configured block size %d is not a power of two", cfg.blockSize())
	}
	if m.GetBlockSize() != cfg.blockSize() {
		return info, errf("manifest.block_size", "is %d, want %d", m.GetBlockSize(), cfg.blockSize())
	}
	report.AddField("block_size", m.GetBlockSize())

	if m.HasSignaturesOffset() != m.HasSignaturesSize() {
		return info, errf("manifest", "signatures_offset and signatures_size must be jointly present or absent")
	}
	info.hasSigs = m.HasSignaturesOffset()
	if info.hasSigs {
		info.sigsOffset = m.GetSignaturesOffset()
		info.sigsSize = m.GetSignaturesSize()
		report.AddField("signatures_offset", info.sigsOffset)
		report.AddField("signatures_size", info.sigsSize)
	}

	hasOldKernel := m.GetOldKernelInfo() != nil
	hasOldRootfs := m.GetOldRootfsInfo() != nil
	if hasOldKernel != hasOldRootfs {
		return info, errf("manifest", "old_kernel_info and old_rootfs_info must be jointly present or absent")
	}

	if hasOldRootfs {
		info.payloadType = PayloadTypeDelta
	} else {
		info.payloadType = PayloadTypeFull
	}
	report.AddField("update type", info.payloadType)

	if cfg.AssertType != PayloadTypeUnspecified && cfg.AssertType != info.payloadType {
		return info, errf("manifest", "payload is %s, asserted type was %s", info.payloadType, cfg.AssertType)
	}

	if hasOldRootfs {
		size, err := checkPartitionInfo("manifest.old_kernel_info", m.GetOldKernelInfo(), cfg.KernelPartSize, report.AddSubReport("old_kernel_info"))
		if err != nil {
			return info, err
		}
		info.oldKernelFsSize = size

		size, err = checkPartitionInfo("manifest.old_rootfs_info", m.GetOldRootfsInfo(), cfg.RootfsPartSize, report.AddSubReport("old_rootfs_info"))
		if err != nil {
			return info, err
		}
		info.oldRootfsFsSize = size
	}

	if m.GetNewKernelInfo() == nil {
		return info, errf("manifest.new_kernel_info", "missing")
	}
	if m.GetNewRootfsInfo() == nil {
		return info, errf("manifest.new_rootfs_info", "missing")
	}

	size, err := checkPartitionInfo("manifest.new_kernel_info", m.GetNewKernelInfo(), cfg.KernelPartSize, report.AddSubReport("new_kernel_info"))
	if err != nil {
		return info, err
	}
	info.newKernelFsSize = size

	size, err = checkPartitionInfo("manifest.new_rootfs_info", m.GetNewRootfsInfo(), cfg.RootfsPartSize, report.AddSubReport("new_rootfs_info"))
	if err != nil {
		return info, err
	}
	info.newRootfsFsSize = size

	if len(m.GetInstallOperations())+len(m.GetKernelInstallOperations()) == 0 {
		return info, errf("manifest", "no operations of any kind")
	}

	return info, nil
}

// checkPartitionInfo validates the mandatory size+hash fields of a
// PartitionInfo sub-message, optionally bounding size against a
// caller-supplied physical partition size, and returns the fs size to
// use for later block accounting.
func checkPartitionInfo(path string, pi *metadata.PartitionInfo, partSize uint64, sub *Report) (uint64, error) {
	if !pi.HasSize() {
		return 0, errf(subName(path, "size"), "missing")
	}
	if len(pi.GetHash()) == 0 {
		return 0, errf(subName(path, "hash"), "missing")
	}

	size := pi.GetSize()
	if partSize != 0 && size > partSize {
		return 0, errf(subName(path, "size"), "%d exceeds partition size %d", size, partSize)
	}

	sub.AddField("size", bytesToHumanReadable(size))
	sub.AddField("hash", fmt.Sprintf("%x", pi.GetHash()))
	sub.Finalize()

	return size, nil
}
