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

package generator

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/coreos/update-payload-checker/update/metadata"
)

var errShortRead = errors.New("read an incomplete block")

// Image is a set of install operations together with the data stream
// they reference, ready to be handed to Generator.Rootfs/Kernel.
type Image struct {
	NewInfo    *metadata.PartitionInfo
	Operations []*metadata.InstallOperation
	io.ReadCloser
}

// FullUpdate generates a full-payload Image for the given file,
// embedding its entire contents so the result does not depend on any
// previous partition state.
func FullUpdate(path string) (*Image, error) {
	source, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	info, err := NewPartitionInfo(source)
	if err != nil {
		return nil, err
	}

	payload, err := ioutil.TempFile("", "update-payload-checker-blob")
	if err != nil {
		return nil, err
	}
	os.Remove(payload.Name())

	scanner := fullScanner{payload: payload, source: source}
	for err == nil {
		err = scanner.Scan()
	}
	if err != nil && err != io.EOF {
		payload.Close()
		if err == errShortRead {
			err = fmt.Errorf("%s: %v", path, err)
		}
		return nil, err
	}

	if _, err := payload.Seek(0, os.SEEK_SET); err != nil {
		payload.Close()
		return nil, err
	}

	return &Image{
		NewInfo:    info,
		Operations: scanner.operations,
		ReadCloser: payload,
	}, nil
}

type fullScanner struct {
	payload    io.Writer
	source     io.Reader
	offset     uint64
	operations []*metadata.InstallOperation
}

func (f *fullScanner) readChunk() ([]byte, error) {
	chunk := make([]byte, ChunkSize)
	n, err := io.ReadFull(f.source, chunk)
	if (err == io.EOF || err == io.ErrUnexpectedEOF) && n != 0 {
		err = nil
	}
	return chunk[:n], err
}

func (f *fullScanner) Scan() error {
	chunk, err := f.readChunk()
	if err != nil {
		return err
	}
	if len(chunk)%BlockSize != 0 {
		return errShortRead
	}

	startBlock := f.offset / BlockSize
	numBlocks := uint64(len(chunk)) / BlockSize
	f.offset += uint64(len(chunk))

	// Try bzip2 compressing the data, hopefully it will shrink!
	opType := metadata.InstallOperation_REPLACE_BZ
	opData, err := Bzip2(chunk)
	if err != nil {
		return err
	}

	if len(opData) >= len(chunk) {
		// That was disappointing, use the uncompressed data instead.
		opType = metadata.InstallOperation_REPLACE
		opData = chunk
	}

	if _, err := f.payload.Write(opData); err != nil {
		return err
	}

	// Operation.DataOffset is filled in by Generator.updateOffsets.
	sum := sha256.Sum256(opData)
	dataLength := uint64(len(opData))
	op := &metadata.InstallOperation{
		Type: opType.Enum(),
		DstExtents: []*metadata.Extent{{
			StartBlock: &startBlock,
			NumBlocks:  &numBlocks,
		}},
		DataLength:     &dataLength,
		DataSha256Hash: sum[:],
	}

	f.operations = append(f.operations, op)

	return nil
}
