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

// Package generator assembles update payloads: a header, a manifest and
// the data blobs its operations reference, followed by a trailing
// signatures block. The checker package's tests do not use it; they
// serialize their own payloads.
package generator

import (
	"encoding/binary"
	"errors"
	"io"
	"os"

	"github.com/coreos/pkg/capnslog"

	"github.com/coreos/update-payload-checker/lang/destructor"
	"github.com/coreos/update-payload-checker/update/metadata"
	"github.com/coreos/update-payload-checker/update/signature"
)

const (
	// BlockSize is the block size used for all generated payloads.
	BlockSize = 4096

	// ChunkSize is the default data size limit processed per operation.
	ChunkSize = BlockSize * 256
)

var (
	plog = capnslog.NewPackageLogger("github.com/coreos/update-payload-checker", "update/generator")

	// ErrPartitionExists indicates that Rootfs or Kernel has already been
	// called on this Generator.
	ErrPartitionExists = errors.New("generator: partition already added")
)

// Generator assembles an update payload from a rootfs and (optionally) a
// kernel partition. Each of its methods must only be called once, ending
// with Write.
type Generator struct {
	destructor.MultiDestructor
	manifest metadata.Manifest
	rootfs   io.Reader
	kernel   io.Reader
}

// Rootfs registers the rootfs install operations and their backing data
// stream. It must be called before Kernel; Write without it produces a
// payload with no rootfs operations.
func (g *Generator) Rootfs(old, newInfo *metadata.PartitionInfo, ops []*metadata.InstallOperation, data io.ReadCloser) error {
	if g.rootfs != nil {
		return ErrPartitionExists
	}
	g.AddCloser(data)
	g.manifest.OldRootfsInfo = old
	g.manifest.NewRootfsInfo = newInfo
	g.manifest.InstallOperations = ops
	g.rootfs = data
	return nil
}

// Kernel registers the kernel install operations and their backing data
// stream. Rootfs must have been called first.
func (g *Generator) Kernel(old, newInfo *metadata.PartitionInfo, ops []*metadata.InstallOperation, data io.ReadCloser) error {
	if g.rootfs == nil {
		return errors.New("generator: Rootfs must be added before Kernel")
	}
	if g.kernel != nil {
		return ErrPartitionExists
	}
	g.AddCloser(data)
	g.manifest.OldKernelInfo = old
	g.manifest.NewKernelInfo = newInfo
	g.manifest.KernelInstallOperations = ops
	g.kernel = data
	return nil
}

// Write finalizes the payload, writing it out to the given file path,
// signed with the given RSA key (PEM, PKCS#1 or PKCS#8 private key).
func (g *Generator) Write(path string, signerKeyPEM []byte) (err error) {
	if err = g.updateOffsets(signerKeyPEM); err != nil {
		return
	}

	plog.Infof("Writing payload to %s", path)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return
	}
	defer func() {
		if e := f.Close(); e != nil && err == nil {
			err = e
		}
	}()

	// All payload data up until the signatures must be hashed.
	hasher := signature.NewManifestHash()
	w := io.MultiWriter(f, hasher)

	if err = g.writeHeader(w); err != nil {
		return
	}
	if err = g.writeManifest(w); err != nil {
		return
	}

	if g.rootfs != nil {
		if _, err = io.Copy(w, g.rootfs); err != nil {
			return
		}
	}
	if g.kernel != nil {
		if _, err = io.Copy(w, g.kernel); err != nil {
			return
		}
	}

	// Hashed writes complete; the signature covers everything up to here.
	err = g.writeSignatures(f, hasher.Sum(nil), signerKeyPEM)
	return
}

func (g *Generator) updateOffsets(signerKeyPEM []byte) error {
	var offset uint64
	updateOps := func(ops []*metadata.InstallOperation) {
		for _, op := range ops {
			if op.DataLength == nil {
				op.DataOffset = nil
				continue
			}
			o := offset
			op.DataOffset = &o
			offset += *op.DataLength
		}
	}

	updateOps(g.manifest.InstallOperations)
	updateOps(g.manifest.KernelInstallOperations)

	sigSize, err := signature.SignaturesSize(signerKeyPEM)
	if err != nil {
		return err
	}
	so := offset
	ss := uint64(sigSize)
	g.manifest.SignaturesOffset = &so
	g.manifest.SignaturesSize = &ss
	return nil
}

func (g *Generator) writeHeader(w io.Writer) error {
	manifestBytes := g.manifest.Marshal()
	header := metadata.DeltaArchiveHeader{
		Version:      metadata.Version,
		ManifestSize: uint64(len(manifestBytes)),
	}
	copy(header.Magic[:], []byte(metadata.Magic))

	return binary.Write(w, binary.BigEndian, &header)
}

func (g *Generator) writeManifest(w io.Writer) error {
	_, err := w.Write(g.manifest.Marshal())
	return err
}

func (g *Generator) writeSignatures(w io.Writer, sum, signerKeyPEM []byte) error {
	signatures, err := signature.Sign(sum, signerKeyPEM)
	if err != nil {
		return err
	}

	_, err = w.Write(signatures.Marshal())
	return err
}
