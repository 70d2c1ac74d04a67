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

// Package cli holds the pieces shared by dotctl's subcommands: a
// process-exit-code-carrying error type. The default log level/format env
// setup lives in cmd/dotctl's setLogEnvVars, not here.
//
// Grounded on the teacher's templates/common.ExitCodeError.
package cli

import "fmt"

// RunError is returned from a subcommand's Run when it wants main to exit
// with a specific process status code.
type RunError struct {
	Code int
	Err  error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("exit code %d: %v", e.Code, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }
