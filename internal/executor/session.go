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

package executor

import (
	"io"

	"github.com/mirryi/dotctl/internal/journal"
	"github.com/mirryi/dotctl/internal/op"
)

// NewJournal returns an empty Journal[JournalOp] writing to w, for a fresh
// deployment session.
func NewJournal(w io.Writer) *journal.Journal[JournalOp] {
	return journal.New[JournalOp](w)
}

// LoadJournal decodes a previously-written journal from r and reattaches
// fctx to every record, since JournalOp deliberately excludes the
// FinishCtx pointer from its yaml encoding. Design Notes' "Backups for
// undo" requires the backup directory a record references to remain valid
// across process restarts, so a resuming session re-supplies it here
// rather than trying to serialize it.
func LoadJournal(r io.Reader, fctx *op.FinishCtx) ([]journal.Record[JournalOp], error) {
	records, err := journal.Load[JournalOp](r)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Action.fctx = fctx
	}
	return records, nil
}

// ResumeJournal builds a Journal over records previously produced by
// LoadJournal, writing further appends to w.
func ResumeJournal(w io.Writer, records []journal.Record[JournalOp]) *journal.Journal[JournalOp] {
	return journal.Resume[JournalOp](w, records)
}
