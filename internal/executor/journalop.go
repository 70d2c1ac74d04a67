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
	"context"

	"github.com/mirryi/dotctl/internal/op"
)

// JournalOp adapts op.Op to journal.Invertible[T]: Apply finishes the op
// against the FinishCtx carried alongside it and returns the inverse,
// wrapped the same way, ready to be appended as the rollback's "redo".
//
// fctx is unexported so yaml.v3 never serializes it onto the journal's
// wire format (only the Op itself needs to survive a reload); every
// JournalOp an Executor constructs carries the same *op.FinishCtx for the
// lifetime of the session, so Apply always has what it needs regardless of
// whether it's invoked from the forward path or from a RollbackIter.
type JournalOp struct {
	Op   op.Op `yaml:"op"`
	fctx *op.FinishCtx
}

// Apply finishes Op and returns its inverse, wrapped for re-appending.
func (j JournalOp) Apply(ctx context.Context) (JournalOp, error) {
	finished, err := j.Op.Finish(ctx, j.fctx)
	if err != nil {
		return JournalOp{}, err
	}
	return JournalOp{Op: finished.Rollback(), fctx: j.fctx}, nil
}
