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

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/abcxyz/pkg/cli"
	"github.com/abcxyz/pkg/logging"

	dotctlcli "github.com/mirryi/dotctl/internal/cli"
	"github.com/mirryi/dotctl/internal/cli/deploy"
	"github.com/mirryi/dotctl/internal/cli/undo"
	"github.com/mirryi/dotctl/internal/version"
)

const (
	defaultLogLevel  = logging.LevelWarning
	defaultLogFormat = logging.FormatText
)

var rootCmd = func() *cli.RootCommand {
	return &cli.RootCommand{
		Name:    version.Name,
		Version: version.HumanVersion,
		Commands: map[string]cli.CommandFactory{
			"deploy": func() cli.Command {
				return &deploy.Command{}
			},
			"undo": func() cli.Command {
				return &undo.Command{}
			},
		},
	}
}

func main() {
	ctx, done := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer done()

	setLogEnvVars()
	ctx = logging.WithLogger(ctx, logging.NewFromEnv("DOTCTL_"))

	if err := realMain(ctx); err != nil {
		done()
		fmt.Fprintln(os.Stderr, err.Error())

		var runErr *dotctlcli.RunError
		if errors.As(err, &runErr) {
			os.Exit(runErr.Code)
		}
		os.Exit(1)
	}
}

func setLogEnvVars() {
	if os.Getenv("DOTCTL_LOG_FORMAT") == "" {
		os.Setenv("DOTCTL_LOG_FORMAT", string(defaultLogFormat))
	}

	if os.Getenv("DOTCTL_LOG_LEVEL") == "" {
		os.Setenv("DOTCTL_LOG_LEVEL", defaultLogLevel.String())
	}
}

func realMain(ctx context.Context) error {
	return rootCmd().Run(ctx, os.Args[1:]) //nolint:wrapcheck
}
