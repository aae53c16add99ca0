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
	"crypto/rsa"
	"fmt"
	"hash"

	"github.com/coreos/update-payload-checker/update/metadata"
	"github.com/coreos/update-payload-checker/update/signature"
)

const expectedSignatureVersion = 1
const rsaSignatureSize = 256

// verifyRSASignature implements §4.7: recover sigData's plaintext
// under pub and require it to be exactly SIG_ASN1_HEADER followed by
// digest.
func verifyRSASignature(pub *rsa.PublicKey, sigData, digest []byte, path string) error {
	if len(sigData) != rsaSignatureSize {
		return errf(path, "signature is %d bytes, want %d", len(sigData), rsaSignatureSize)
	}

	recovered, err := signature.RecoverPKCS1v15(pub, sigData)
	if err != nil {
		return errf(path, "recovering signature: %v", err)
	}

	want := len(signature.SigAsn1Header) + len(digest)
	if len(recovered) != want {
		return errf(path, "recovered plaintext is %d bytes, want %d", len(recovered), want)
	}
	if !bytes.Equal(recovered[:len(signature.SigAsn1Header)], signature.SigAsn1Header) {
		return errf(path, "recovered plaintext missing SIG_ASN1_HEADER prefix")
	}
	if !bytes.Equal(recovered[len(signature.SigAsn1Header):], digest) {
		return errf(path, "recovered digest does not match expected digest")
	}
	return nil
}

// checkSignatures implements §4.6. fakeOp is the trailing operation
// that addresses the signatures blob itself (the last operation of
// whichever of kernel/rootfs sequences is non-empty); manifestHash is
// the payload's running digest cloned at the point its write cursor
// reached data_offset + sigs_offset (i.e. just before the signatures
// bytes), not yet finalized by the caller.
func checkSignatures(sigs *metadata.Signatures, fakeOp *metadata.InstallOperation, fakeOpPath string, info manifestInfo, manifestHash hash.Hash, pub *rsa.PublicKey, report *Report) error {
	report.AddSection("signatures")

	if len(sigs.Signatures) == 0 {
		return errf("signatures", "no signature entries")
	}

	if fakeOp == nil {
		return errf("signatures", "no operation addresses the signatures blob")
	}
	if fakeOp.GetType() != metadata.InstallOperation_REPLACE {
		return errf(fakeOpPath, "signature operation must be REPLACE, got %s", fakeOp.GetType())
	}
	if !fakeOp.HasDataOffset() || fakeOp.GetDataOffset() != info.sigsOffset {
		return errf(fakeOpPath, "signature operation data_offset does not match signatures_offset")
	}
	if !fakeOp.HasDataLength() || fakeOp.GetDataLength() != info.sigsSize {
		return errf(fakeOpPath, "signature operation data_length does not match signatures_size")
	}

	digest := manifestHash.Sum(nil)

	for i, sig := range sigs.Signatures {
		path := indexLabel("signatures", i)
		sub := report.AddSubReport(path)
		sub.AddField("data length", len(sig.GetData()))

		if !sig.HasVersion() {
			sub.Finalize()
			return errf(path, "missing version")
		}

		sub.AddField("version", sig.GetVersion())
		sub.Finalize()

		if sig.GetVersion() != expectedSignatureVersion {
			return errf(path, "unsupported signature version %d", sig.GetVersion())
		}

		if err := verifyRSASignature(pub, sig.GetData(), digest, path); err != nil {
			return err
		}
	}

	return nil
}

func indexLabel(prefix string, i int) string {
	return fmt.Sprintf("%s[%d]", prefix, i)
}
