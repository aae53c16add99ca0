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

// Package update parses the on-disk layout of an update payload: the
// fixed header, the DeltaArchiveManifest it frames, and the data blob
// and signatures sections that follow. It knows nothing about whether
// any of that content is *valid* — that is the checker package's job.
package update

import (
	"encoding/binary"
	"fmt"
	"hash"
	"io"

	"github.com/pkg/errors"

	"github.com/coreos/update-payload-checker/update/metadata"
	"github.com/coreos/update-payload-checker/update/signature"
)

var (
	// ErrInvalidMagic is returned when a payload does not begin with
	// the expected "CrAU" magic bytes.
	ErrInvalidMagic = errors.New("update: payload missing magic prefix")

	// ErrInvalidVersion is returned when a payload declares an
	// unsupported header version.
	ErrInvalidVersion = errors.New("update: payload version unsupported")
)

// Payload streams a single update payload, accumulating a running
// SHA-256 digest of every byte read through it (header, manifest, data
// blobs, and the trailing signatures too once they are read). The
// digest a signature covers is the one taken just before the
// signatures are read, via Sum or CloneHash at that point.
type Payload struct {
	h hash.Hash
	r io.Reader

	// Offset is the number of bytes read since the end of the
	// manifest; this is the coordinate system the manifest's
	// operations and signatures_offset are expressed in.
	Offset int64

	// DataSectionOffset is the byte offset of the data section (the
	// first byte past the manifest) within the whole payload file:
	// the size of the fixed header plus the manifest.
	DataSectionOffset int64

	Header   metadata.DeltaArchiveHeader
	Manifest metadata.Manifest
}

// NewPayloadFrom wraps r, parsing the payload header and manifest
// immediately so callers can inspect Manifest right away. The
// remainder of r (the data blobs and signatures) is read lazily
// through Payload.Read/ReadDataBlob.
func NewPayloadFrom(r io.Reader) (*Payload, error) {
	p := &Payload{h: signature.NewManifestHash(), r: r}

	if err := p.readHeader(); err != nil {
		return nil, err
	}
	if err := p.readManifest(); err != nil {
		return nil, err
	}

	// Offsets recorded in the manifest are relative to the end of
	// the manifest, not the start of the payload.
	p.DataSectionOffset = p.Offset
	p.Offset = 0

	return p, nil
}

// Read reads from the raw payload stream, updating the running digest
// and Offset. It behaves like io.TeeReader with an internal sink.
func (p *Payload) Read(b []byte) (n int, err error) {
	n, err = p.r.Read(b)
	if n > 0 {
		p.Offset += int64(n)
		if _, herr := p.h.Write(b[:n]); herr != nil {
			return n, herr
		}
	}
	return n, err
}

// ReadDataBlob reads exactly n bytes from the payload, the same way
// Read does, returning them as a single buffer. It is a convenience
// for callers (extent and operation checks) that need a whole
// operation's data at once.
func (p *Payload) ReadDataBlob(n uint64) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(p, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Sum returns the running digest of everything read from the payload
// so far, via Read or ReadDataBlob.
func (p *Payload) Sum() []byte {
	return p.h.Sum(nil)
}

// CloneHash forks the payload's running digest so a caller can keep
// accumulating past the current read position without disturbing the
// payload's own hash state — used to recompute the manifest hash as of
// an earlier offset than the payload has now reached.
func (p *Payload) CloneHash() (hash.Hash, error) {
	return signature.CloneHash(p.h)
}

func (p *Payload) readHeader() error {
	if err := binary.Read(p, binary.BigEndian, &p.Header); err != nil {
		return errors.Wrap(err, "update: reading header")
	}

	if string(p.Header.Magic[:]) != metadata.Magic {
		return ErrInvalidMagic
	}
	if p.Header.Version != metadata.Version {
		return ErrInvalidVersion
	}

	return nil
}

func (p *Payload) readManifest() error {
	if p.Header.ManifestSize == 0 {
		return fmt.Errorf("update: payload declares an empty manifest")
	}

	buf, err := p.ReadDataBlob(p.Header.ManifestSize)
	if err != nil {
		return errors.Wrap(err, "update: reading manifest")
	}

	return p.Manifest.Unmarshal(buf)
}

// ReadSignatures reads and parses the Signatures message starting at
// the payload's current offset, which the caller is responsible for
// having checked against Manifest.GetSignaturesOffset() first.
func (p *Payload) ReadSignatures() (*metadata.Signatures, error) {
	buf, err := p.ReadDataBlob(p.Manifest.GetSignaturesSize())
	if err != nil {
		return nil, errors.Wrap(err, "update: reading signatures")
	}

	sigs := &metadata.Signatures{}
	if err := sigs.Unmarshal(buf); err != nil {
		return nil, errors.Wrap(err, "update: parsing signatures")
	}
	return sigs, nil
}
