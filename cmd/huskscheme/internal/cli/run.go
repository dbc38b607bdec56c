// Copyright 2024 The Husk Scheme Authors
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

package cli

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/nakayama900/husk-scheme/internal/core/herr"
	"github.com/nakayama900/husk-scheme/internal/core/runtime"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <file...>",
		Short: "evaluate the top-level forms of one or more source files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runRunE,
	}
	return cmd
}

func runRunE(cmd *cobra.Command, args []string) error {
	trace, err := cmd.Flags().GetBool("trace")
	if err != nil {
		return err
	}

	level := hclog.Warn
	if trace {
		level = hclog.Trace
	}
	log := hclog.New(&hclog.LoggerOptions{
		Name:   "huskscheme",
		Level:  level,
		Output: cmd.ErrOrStderr(),
	})

	r := runtime.EmptyEnv(runtime.WithLogger(log), runtime.WithTrace(trace))
	if err := r.LoadPrimitives(); err != nil {
		return err
	}

	var errs []error
	totalPassed, totalFailed := 0, 0
	for _, path := range args {
		summary, err := r.LoadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		totalPassed += summary.Passed
		totalFailed += summary.Failed
		for i, res := range summary.Results {
			if res.Err == nil {
				continue
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: form %d: %v\n", path, i, res.Err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d passed, %d failed\n", totalPassed, totalFailed)

	if len(errs) > 0 {
		return herr.Append(errs[0], errs[1:]...)
	}
	if totalFailed > 0 {
		return fmt.Errorf("%d form(s) failed to evaluate", totalFailed)
	}
	return nil
}
