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

// Package journal implements the append-only operation log: a sequence of
// Records over an invertible operation type, persisted through a byte
// writer, supporting indexed reverse access and iterator-driven rollback.
//
// There is no direct teacher analog for this package — abcxyz/abc records a
// single terminal manifest rather than an append-only undo log — so its
// shape is grounded directly in this log's own rollback requirements, while
// its serialization strategy (a yaml.v3 multi-document stream, decoded by
// looping Decode until io.EOF) follows the teacher's manifest.go, which
// uses yaml.v3 for all of its on-disk state.
package journal

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Kind tags a Record as either an applied operation or a transaction
// boundary.
type Kind int

const (
	KindAction Kind = iota
	KindCommit
)

func (k Kind) String() string {
	if k == KindCommit {
		return "commit"
	}
	return "action"
}

// Record is one entry in a Journal: either an operation that was applied,
// or a Commit marking the end of a transaction.
type Record[T any] struct {
	Kind   Kind `yaml:"kind"`
	Action T    `yaml:"action,omitempty"`
}

func actionRecord[T any](a T) Record[T] { return Record[T]{Kind: KindAction, Action: a} }

func commitRecord[T any]() Record[T] {
	var zero T
	return Record[T]{Kind: KindCommit, Action: zero}
}

// Invertible is the constraint a Journal's operation type must satisfy:
// applying a record to live state must itself produce the record that
// would undo that application. op.Op satisfies this (see
// internal/executor's JournalOp adapter) via Finish followed by
// Finished.Rollback.
type Invertible[T any] interface {
	Apply(ctx context.Context) (T, error)
}

// syncer is implemented by writers (such as *os.File) that can force
// buffered data to stable storage; Journal uses it opportunistically so
// every append is as durable as the underlying writer allows.
type syncer interface {
	Sync() error
}

// Journal is an append-only record log over an invertible operation type T.
// Every appended record is serialized and written to W before the append is
// acknowledged to the caller.
type Journal[T Invertible[T]] struct {
	records []Record[T]
	w       io.Writer
	enc     *yaml.Encoder
}

// New returns an empty Journal that writes new records to w.
func New[T Invertible[T]](w io.Writer) *Journal[T] {
	return &Journal[T]{w: w, enc: yaml.NewEncoder(w)}
}

// Load decodes a sequence of Records previously written in the Journal wire
// format, for resuming a session against an on-disk journal.
func Load[T Invertible[T]](r io.Reader) ([]Record[T], error) {
	dec := yaml.NewDecoder(r)
	var records []Record[T]
	for {
		var rec Record[T]
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return nil, fmt.Errorf("journal: decoding record %d: %w", len(records), err)
		}
		records = append(records, rec)
	}
}

// Resume builds a Journal over existing records (e.g. from Load), writing
// any further appends to w.
func Resume[T Invertible[T]](w io.Writer, records []Record[T]) *Journal[T] {
	j := New[T](w)
	j.records = records
	return j
}

// Append serializes record, writes it to the underlying writer, and only
// then pushes it into the in-memory vector. A writer error leaves the
// in-memory state unchanged.
func (j *Journal[T]) Append(record Record[T]) error {
	if err := j.enc.Encode(record); err != nil {
		return fmt.Errorf("journal: writing record: %w", err)
	}
	if s, ok := j.w.(syncer); ok {
		if err := s.Sync(); err != nil {
			return fmt.Errorf("journal: syncing writer: %w", err)
		}
	}
	j.records = append(j.records, record)
	return nil
}

// AppendAction appends an Action(a) record.
func (j *Journal[T]) AppendAction(a T) error {
	return j.Append(actionRecord(a))
}

// AppendCommit appends a Commit record.
func (j *Journal[T]) AppendCommit() error {
	return j.Append(commitRecord[T]())
}

// Records returns a read-only view of the in-memory record vector.
func (j *Journal[T]) Records() []Record[T] {
	return j.records
}

// Latest returns the last record, or ok=false if the journal is empty.
func (j *Journal[T]) Latest() (Record[T], bool) {
	if len(j.records) == 0 {
		return Record[T]{}, false
	}
	return j.records[len(j.records)-1], true
}

// GetBack returns the i-th record from the end, zero-based.
func (j *Journal[T]) GetBack(i int) (Record[T], bool) {
	idx := len(j.records) - 1 - i
	if idx < 0 || idx >= len(j.records) {
		return Record[T]{}, false
	}
	return j.records[idx], true
}

func (j *Journal[T]) IsEmpty() bool { return len(j.records) == 0 }
func (j *Journal[T]) Len() int      { return len(j.records) }

// Rollback returns a RollbackIter positioned at the end of the journal.
// Calling Next on it unwinds the current in-flight transaction (or is an
// immediate no-op if the journal is empty or already ends in a Commit).
func (j *Journal[T]) Rollback() *RollbackIter[T] {
	return &RollbackIter[T]{j: j, idx: len(j.records) - 1}
}

// RollbackLast returns a RollbackIter positioned one step before the end,
// but only if the journal's latest record is a Commit — i.e. only a
// completed transaction can be rewound this way. ok is false otherwise.
func (j *Journal[T]) RollbackLast() (*RollbackIter[T], bool) {
	latest, ok := j.Latest()
	if !ok || latest.Kind != KindCommit {
		return nil, false
	}
	return &RollbackIter[T]{j: j, idx: len(j.records) - 2}, true
}

// RollbackIter walks a Journal backwards, applying each Action record's
// operation and appending the result (the record's own inverse — its
// "redo") back onto the same journal. This makes a rollback itself a
// transaction in the log: rolling back a rollback is a redo.
//
// It stops when it reaches a Commit record or the beginning of the
// journal, and appends a trailing Commit of its own only if it actually
// unwound at least one record.
type RollbackIter[T Invertible[T]] struct {
	j        *Journal[T]
	idx      int
	appended bool
	done     bool
}

// Next applies and unwinds the next record in this rollback, returning the
// operation that was appended as its redo. ok is false once the iterator
// has terminated (no more records this call unwound).
func (it *RollbackIter[T]) Next(ctx context.Context) (redo T, ok bool, err error) {
	if it.done {
		return redo, false, nil
	}

	if it.idx < 0 || it.j.records[it.idx].Kind == KindCommit {
		it.done = true
		if it.appended {
			if err := it.j.AppendCommit(); err != nil {
				return redo, false, err
			}
		}
		return redo, false, nil
	}

	rec := it.j.records[it.idx]
	redo, err = rec.Action.Apply(ctx)
	if err != nil {
		return redo, false, fmt.Errorf("journal: rolling back record at %d: %w", it.idx, err)
	}
	if err := it.j.AppendAction(redo); err != nil {
		return redo, false, err
	}
	it.appended = true
	it.idx--
	return redo, true, nil
}

// Drain runs the iterator to completion, collecting every redo op it
// produced along the way.
func (it *RollbackIter[T]) Drain(ctx context.Context) ([]T, error) {
	var out []T
	for {
		redo, ok, err := it.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, redo)
	}
}
