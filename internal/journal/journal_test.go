// Copyright 2026 The Authors (see AUTHORS file)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package journal

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// testOp is a minimal Invertible used to exercise Journal/RollbackIter
// without pulling in the op package; applying it just negates a label so
// rollback-of-rollback is trivially checkable.
type testOp struct {
	Label   string `yaml:"label"`
	Applied bool   `yaml:"applied"`
}

func (o testOp) Apply(ctx context.Context) (testOp, error) {
	return testOp{Label: o.Label, Applied: !o.Applied}, nil
}

func TestRollback_EmptyJournal(t *testing.T) {
	t.Parallel()
	j := New[testOp](&bytes.Buffer{})
	iter := j.Rollback()
	_, ok, err := iter.Next(context.Background())
	if err != nil || ok {
		t.Fatalf("Next() = (_, %v, %v), want (_, false, nil)", ok, err)
	}
	if !j.IsEmpty() {
		t.Errorf("journal should remain empty, got %d records", j.Len())
	}
}

func TestRollback_SingleCommit_NoOp(t *testing.T) {
	t.Parallel()
	j := New[testOp](&bytes.Buffer{})
	if err := j.AppendCommit(); err != nil {
		t.Fatal(err)
	}
	iter := j.Rollback()
	_, ok, err := iter.Next(context.Background())
	if err != nil || ok {
		t.Fatalf("Next() = (_, %v, %v), want (_, false, nil)", ok, err)
	}
	if j.Len() != 1 {
		t.Errorf("journal should be untouched, got %d records", j.Len())
	}
}

func TestRollback_DoubleCommit_NoOp(t *testing.T) {
	t.Parallel()
	j := New[testOp](&bytes.Buffer{})
	if err := j.AppendCommit(); err != nil {
		t.Fatal(err)
	}
	if err := j.AppendCommit(); err != nil {
		t.Fatal(err)
	}
	iter := j.Rollback()
	_, ok, err := iter.Next(context.Background())
	if err != nil || ok {
		t.Fatalf("Next() = (_, %v, %v), want (_, false, nil)", ok, err)
	}
	if j.Len() != 2 {
		t.Errorf("journal should be untouched, got %d records", j.Len())
	}
}

func TestRollback_SingleAction_AppendsRedoThenCommit(t *testing.T) {
	t.Parallel()
	j := New[testOp](&bytes.Buffer{})
	a := testOp{Label: "a"}
	if err := j.AppendAction(a); err != nil {
		t.Fatal(err)
	}

	iter := j.Rollback()
	ctx := context.Background()

	redo, ok, err := iter.Next(ctx)
	if err != nil || !ok {
		t.Fatalf("Next() = (_, %v, %v), want (_, true, nil)", ok, err)
	}
	if !redo.Applied {
		t.Errorf("redo = %+v, want Applied=true", redo)
	}
	if j.Len() != 2 {
		t.Fatalf("after first Next, Len() = %d, want 2 (original + redo)", j.Len())
	}

	_, ok, err = iter.Next(ctx)
	if err != nil || ok {
		t.Fatalf("second Next() = (_, %v, %v), want (_, false, nil)", ok, err)
	}
	if j.Len() != 3 {
		t.Fatalf("after second Next, Len() = %d, want 3 (original + redo + commit)", j.Len())
	}
	if latest, _ := j.Latest(); latest.Kind != KindCommit {
		t.Errorf("latest record kind = %v, want KindCommit", latest.Kind)
	}

	_, ok, err = iter.Next(ctx)
	if err != nil || ok {
		t.Fatalf("third Next() = (_, %v, %v), want (_, false, nil)", ok, err)
	}
	if j.Len() != 3 {
		t.Errorf("Len() after exhausted iterator = %d, want unchanged 3", j.Len())
	}
}

func TestRollback_StopsAtPriorCommit(t *testing.T) {
	t.Parallel()
	j := New[testOp](&bytes.Buffer{})
	ctx := context.Background()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(j.AppendAction(testOp{Label: "A"}))
	must(j.AppendCommit())
	must(j.AppendAction(testOp{Label: "B"}))
	must(j.AppendAction(testOp{Label: "C"}))

	iter := j.Rollback()
	var labels []string
	redos, err := iter.Drain(ctx)
	if err != nil {
		t.Fatalf("Drain(): %v", err)
	}
	for _, r := range redos {
		labels = append(labels, r.Label)
	}
	want := []string{"C", "B"}
	if diff := cmp.Diff(want, labels); diff != "" {
		t.Errorf("rollback order mismatch (-want +got):\n%s", diff)
	}

	// Original 4 records + 2 redo actions + 1 trailing commit = 7.
	if j.Len() != 7 {
		t.Fatalf("Len() = %d, want 7", j.Len())
	}
	if latest, _ := j.Latest(); latest.Kind != KindCommit {
		t.Errorf("latest record kind = %v, want KindCommit", latest.Kind)
	}
	// The record at the original Commit boundary must be untouched.
	boundary, ok := j.GetBack(5)
	if !ok || boundary.Kind != KindCommit {
		t.Errorf("GetBack(5) = %+v, want the original Commit boundary", boundary)
	}
}

func TestRollbackLast_RequiresTrailingCommit(t *testing.T) {
	t.Parallel()
	j := New[testOp](&bytes.Buffer{})
	if err := j.AppendAction(testOp{Label: "A"}); err != nil {
		t.Fatal(err)
	}
	if _, ok := j.RollbackLast(); ok {
		t.Fatal("RollbackLast() should be undefined when latest record isn't a Commit")
	}

	if err := j.AppendCommit(); err != nil {
		t.Fatal(err)
	}
	iter, ok := j.RollbackLast()
	if !ok {
		t.Fatal("RollbackLast() should succeed when latest record is a Commit")
	}
	redo, stepped, err := iter.Next(context.Background())
	if err != nil || !stepped {
		t.Fatalf("Next() = (_, %v, %v)", stepped, err)
	}
	if redo.Label != "A" {
		t.Errorf("redo.Label = %q, want A", redo.Label)
	}
}

func TestLoad_RoundTripsAppendedRecords(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	j := New[testOp](&buf)
	if err := j.AppendAction(testOp{Label: "A"}); err != nil {
		t.Fatal(err)
	}
	if err := j.AppendCommit(); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load[testOp](bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if diff := cmp.Diff(j.Records(), loaded); diff != "" {
		t.Errorf("Load() mismatch (-original +loaded):\n%s", diff)
	}

	resumed := Resume[testOp](&bytes.Buffer{}, loaded)
	if resumed.Len() != 2 {
		t.Errorf("Resume().Len() = %d, want 2", resumed.Len())
	}
}

func TestGetBack_OutOfRange(t *testing.T) {
	t.Parallel()
	j := New[testOp](&bytes.Buffer{})
	if _, ok := j.GetBack(0); ok {
		t.Error("GetBack(0) on empty journal should be (_, false)")
	}
}
