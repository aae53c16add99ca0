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

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/coreos/update-payload-checker/checker"
	"github.com/coreos/update-payload-checker/update"
)

func runCheckWithReport(path string, pubKeyPEM, metaSig []byte, disabled map[string]bool, assertType checker.PayloadType, reportOut io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening payload: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat payload: %w", err)
	}

	payload, err := update.NewPayloadFrom(f)
	if err != nil {
		return fmt.Errorf("parsing payload: %w", err)
	}

	opts := checker.RunOptions{
		Config: checker.Config{
			AssertType:     assertType,
			AllowUnhashed:  flagAllowUnhashed,
			RootfsPartSize: flagRootfsPartSz,
			KernelPartSize: flagKernelPartSz,
			DisabledTests:  disabled,
		},
		PayloadFileSize:    st.Size(),
		PubKeyPEM:          pubKeyPEM,
		MetadataSigBase64:  metaSig,
		ReportOut:          reportOut,
	}

	if err := checker.Run(payload, opts); err != nil {
		plog.Errorf("payload check failed: %v", err)
		return err
	}

	plog.Info("payload is valid")
	return nil
}
