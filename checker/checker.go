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
	"encoding/base64"
	"hash"
	"io"

	"github.com/pkg/errors"

	"github.com/coreos/update-payload-checker/update"
	"github.com/coreos/update-payload-checker/update/metadata"
	"github.com/coreos/update-payload-checker/update/signature"
)

// RunOptions are the caller-supplied inputs Run needs beyond the
// parsed payload itself: the total size of the payload file, an
// optional detached metadata signature, and the public key used to
// verify both it and the inline payload signature.
type RunOptions struct {
	Config

	PayloadFileSize int64

	PubKeyPEM []byte

	// MetadataSigBase64, if non-empty, is the base64-encoded contents
	// of a detached signature of the manifest hash, checked before
	// anything else.
	MetadataSigBase64 []byte

	ReportOut io.Writer
}

// Run validates p against opts in the fixed order set out by the
// driver design: metadata signature, header, manifest, rootfs
// operations, kernel operations, data-section accounting, payload
// signature, summary. The report is written to opts.ReportOut on every
// exit path, successful or not — callers that want the report only on
// failure can discard ReportOut's contents on a nil return.
func Run(p *update.Payload, opts RunOptions) (err error) {
	report := &Report{}
	defer func() {
		if opts.ReportOut != nil {
			report.Dump(opts.ReportOut)
		}
	}()

	if len(opts.MetadataSigBase64) > 0 {
		if len(opts.PubKeyPEM) == 0 {
			return errf("", "metadata signature supplied without a public key")
		}
		if err := checkMetadataSignature(p, opts); err != nil {
			return err
		}
		report.AddField("metadata signature", "verified")
	}

	report.AddSection("header")
	report.AddField("version", p.Header.Version)
	if p.Header.Version != metadata.Version {
		return errf("header.version", "is %d, want %d", p.Header.Version, metadata.Version)
	}

	info, err := checkManifest(&p.Manifest, opts.Config, report)
	if err != nil {
		return err
	}

	// The trailing fake signature operation's data blob is, byte for
	// byte, the Signatures message itself: readBlob captures both the
	// manifest hash as of just before those bytes (the payload hash
	// the signatures are computed over) and the bytes themselves, so
	// the signature check below can parse them directly rather than
	// re-reading a stream that has already moved past them.
	var sigHash hash.Hash
	var sigBlob []byte
	readBlob := func(length uint64) ([]byte, error) {
		atSigsOffset := info.hasSigs && uint64(p.Offset) == info.sigsOffset
		if atSigsOffset && sigHash == nil {
			h, err := p.CloneHash()
			if err != nil {
				return nil, err
			}
			sigHash = h
		}

		buf, err := p.ReadDataBlob(length)
		if err != nil {
			return nil, err
		}
		if atSigsOffset {
			sigBlob = buf
		}
		return buf, nil
	}

	rootfsPartSize := opts.RootfsPartSize
	if rootfsPartSize == 0 {
		rootfsPartSize = info.newRootfsFsSize
	}
	rootfsUsed, err := checkOperationSequence(p.Manifest.GetInstallOperations(), sequenceParams{
		isKernel:      false,
		oldFsSize:     info.oldRootfsFsSize,
		newFsSize:     info.newRootfsFsSize,
		newUsableSize: rootfsPartSize,
		readBlob:      readBlob,
	}, opts.Config, info.payloadType, report)
	if err != nil {
		return err
	}

	kernelPartSize := opts.KernelPartSize
	if kernelPartSize == 0 {
		kernelPartSize = info.newKernelFsSize
	}
	_, err = checkOperationSequence(p.Manifest.GetKernelInstallOperations(), sequenceParams{
		isKernel:       true,
		oldFsSize:      info.oldKernelFsSize,
		newFsSize:      info.newKernelFsSize,
		newUsableSize:  kernelPartSize,
		prevDataOffset: rootfsUsed,
		allowSignature: true,
		readBlob:       readBlob,
	}, opts.Config, info.payloadType, report)
	if err != nil {
		return err
	}

	if uint64(p.DataSectionOffset)+uint64(p.Offset) != uint64(opts.PayloadFileSize) {
		return errf("", "used payload size %d does not match file size %d", uint64(p.DataSectionOffset)+uint64(p.Offset), opts.PayloadFileSize)
	}

	if !opts.disabled(CheckPayloadSig) && info.hasSigs && info.sigsSize > 0 {
		if len(opts.PubKeyPEM) == 0 {
			return errf("", "payload carries signatures but no public key was supplied")
		}
		if sigHash == nil || sigBlob == nil {
			return errf("signatures", "no operation ever reached the signatures offset")
		}

		sigs := &metadata.Signatures{}
		if err := sigs.Unmarshal(sigBlob); err != nil {
			return errf("signatures", "parsing signatures: %v", err)
		}

		fakeOp, fakeOpPath := lastSignatureOp(&p.Manifest)

		pub, err := signature.ParsePublicKey(opts.PubKeyPEM)
		if err != nil {
			return errf("signatures", "parsing public key: %v", err)
		}

		if err := checkSignatures(sigs, fakeOp, fakeOpPath, info, sigHash, pub, report); err != nil {
			return err
		}
	}

	report.AddSection("summary")
	report.AddField("result", "valid payload")
	report.Finalize()

	return nil
}

// lastSignatureOp returns the last operation of whichever of
// kernel_install_operations / install_operations is non-empty, along
// with its report path — the "fake signature operation" whose
// dst_extents address the signatures blob itself.
func lastSignatureOp(m *metadata.Manifest) (*metadata.InstallOperation, string) {
	if ops := m.GetKernelInstallOperations(); len(ops) > 0 {
		return ops[len(ops)-1], opName(true, len(ops)-1)
	}
	if ops := m.GetInstallOperations(); len(ops) > 0 {
		return ops[len(ops)-1], opName(false, len(ops)-1)
	}
	return nil, ""
}

func checkMetadataSignature(p *update.Payload, opts RunOptions) error {
	sig, err := base64.StdEncoding.DecodeString(string(opts.MetadataSigBase64))
	if err != nil {
		return errf("", "decoding metadata signature: %v", errors.Cause(err))
	}

	pub, err := signature.ParsePublicKey(opts.PubKeyPEM)
	if err != nil {
		return errf("", "parsing public key: %v", err)
	}

	return verifyRSASignature(pub, sig, p.Sum(), "metadata-signature")
}
