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

// Command update-payload-checker validates the structural integrity
// and cryptographic authenticity of a CrAU-format update payload.
package main

import (
	"fmt"
	"os"

	"github.com/coreos/pkg/capnslog"
	"github.com/spf13/cobra"

	"github.com/coreos/update-payload-checker/checker"
)

var (
	plog = capnslog.NewPackageLogger("github.com/coreos/update-payload-checker", "main")
	root = &cobra.Command{
		Use:   "update-payload-checker",
		Short: "Validate a Chrome OS-style update payload",
	}
)

func main() {
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

var (
	flagKeyFile       string
	flagMetaSigFile   string
	flagRootfsPartSz  uint64
	flagKernelPartSz  uint64
	flagAssertType    string
	flagAllowUnhashed bool
	flagDisable       []string
	flagReportOut     string
)

var cmdCheck = &cobra.Command{
	Use:   "check <payload-file>",
	Short: "check a payload file against its manifest and signatures",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	cmdCheck.Flags().StringVar(&flagKeyFile, "key", "", "PEM public key to verify signatures against")
	cmdCheck.Flags().StringVar(&flagMetaSigFile, "meta-sig", "", "file containing a base64-encoded detached metadata signature")
	cmdCheck.Flags().Uint64Var(&flagRootfsPartSz, "rootfs-part-size", 0, "bound the usable rootfs partition size (0: use the manifest's reported size)")
	cmdCheck.Flags().Uint64Var(&flagKernelPartSz, "kernel-part-size", 0, "bound the usable kernel partition size (0: use the manifest's reported size)")
	cmdCheck.Flags().StringVar(&flagAssertType, "assert-type", "", "require the payload to be \"full\" or \"delta\"")
	cmdCheck.Flags().BoolVar(&flagAllowUnhashed, "allow-unhashed", false, "permit data-bearing operations without a data_sha256_hash")
	cmdCheck.Flags().StringSliceVar(&flagDisable, "disable", nil, "disable named checks: dst-pseudo-extents, move-same-src-dst-block, payload-sig")
	cmdCheck.Flags().StringVar(&flagReportOut, "report", "", "write the textual report to this path instead of stdout")

	root.AddCommand(cmdCheck)
}

func runCheck(cmd *cobra.Command, args []string) error {
	assertType, err := parseAssertType(flagAssertType)
	if err != nil {
		return err
	}

	disabled := map[string]bool{}
	for _, name := range flagDisable {
		disabled[name] = true
	}

	var pubKeyPEM []byte
	if flagKeyFile != "" {
		pubKeyPEM, err = os.ReadFile(flagKeyFile)
		if err != nil {
			return fmt.Errorf("reading public key: %w", err)
		}
	}

	var metaSig []byte
	if flagMetaSigFile != "" {
		metaSig, err = os.ReadFile(flagMetaSigFile)
		if err != nil {
			return fmt.Errorf("reading metadata signature: %w", err)
		}
	}

	reportOut := os.Stdout
	if flagReportOut != "" {
		f, err := os.Create(flagReportOut)
		if err != nil {
			return fmt.Errorf("creating report file: %w", err)
		}
		defer f.Close()
		return runCheckWithReport(args[0], pubKeyPEM, metaSig, disabled, assertType, f)
	}

	return runCheckWithReport(args[0], pubKeyPEM, metaSig, disabled, assertType, reportOut)
}

func parseAssertType(s string) (checker.PayloadType, error) {
	switch s {
	case "":
		return checker.PayloadTypeUnspecified, nil
	case "full":
		return checker.PayloadTypeFull, nil
	case "delta":
		return checker.PayloadTypeDelta, nil
	default:
		return checker.PayloadTypeUnspecified, fmt.Errorf("invalid --assert-type %q", s)
	}
}
