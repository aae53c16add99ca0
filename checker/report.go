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
	"io"
	"strings"
)

type nodeKind int

const (
	kindField nodeKind = iota
	kindSubReport
	kindSection
)

// reportNode is one line of output: either a name/value pair, the
// start of a nested sub-report (rendered indented, under its own
// title), or a section break that resets column alignment for the
// fields that follow it.
type reportNode struct {
	kind  nodeKind
	name  string
	value string
	sub   *Report
}

// Report accumulates the human-readable trace of a check run as an
// append-only tree: top-level fields and sub-reports in the order they
// were added, with field names column-aligned within each section. A
// Report that is never Finalized still renders, but is flagged
// incomplete, so a Dump taken mid-check (e.g. from a deferred dump on
// error) still shows everything gathered up to the failure.
type Report struct {
	nodes    []reportNode
	final    bool
}

// AddField appends a name/value pair to the report.
func (r *Report) AddField(name string, value interface{}) {
	r.nodes = append(r.nodes, reportNode{kind: kindField, name: name, value: fmt.Sprint(value)})
}

// AddSubReport creates, appends, and returns a new nested Report filed
// under name; the caller populates it and it renders indented beneath
// its title line.
func (r *Report) AddSubReport(name string) *Report {
	sub := &Report{}
	r.nodes = append(r.nodes, reportNode{kind: kindSubReport, name: name, sub: sub})
	return sub
}

// AddSection inserts a named section break. Field names are
// column-aligned against the longest field name since the previous
// section break (or the start of the report), not across the whole
// report.
func (r *Report) AddSection(title string) {
	r.nodes = append(r.nodes, reportNode{kind: kindSection, name: title})
}

// Finalize marks the report complete. Dump on a report that was never
// finalized still renders, prefixed with an incomplete-report marker.
func (r *Report) Finalize() {
	r.final = true
}

// Dump writes the rendered report to w.
func (r *Report) Dump(w io.Writer) {
	if !r.final {
		fmt.Fprintln(w, "(incomplete report)")
	}
	r.dump(w, 0)
}

func (r *Report) dump(w io.Writer, indent int) {
	prefix := strings.Repeat("  ", indent)

	segStart := 0
	flush := func(end int) {
		width := 0
		for _, n := range r.nodes[segStart:end] {
			if n.kind == kindField && len(n.name) > width {
				width = len(n.name)
			}
		}
		for _, n := range r.nodes[segStart:end] {
			switch n.kind {
			case kindField:
				fmt.Fprintf(w, "%s%-*s : %s\n", prefix, width, n.name, n.value)
			case kindSubReport:
				fmt.Fprintf(w, "%s%s:\n", prefix, n.name)
				n.sub.dump(w, indent+1)
			}
		}
	}

	for i, n := range r.nodes {
		if n.kind == kindSection {
			flush(i)
			fmt.Fprintf(w, "%s%s\n", prefix, n.name)
			segStart = i + 1
		}
	}
	flush(len(r.nodes))
}
