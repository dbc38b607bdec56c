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

// Package cli assembles the huskscheme cobra command tree, in the
// teacher's cmd/cue/cmd idiom (a constructor returning the root
// *cobra.Command, subcommands registered onto it, RunE doing the work and
// returning an error rather than calling os.Exit directly).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// New builds the root huskscheme command.
func New() *cobra.Command {
	root := &cobra.Command{
		Use:           "huskscheme",
		Short:         "huskscheme evaluates Scheme source files against the core evaluator",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().Bool("trace", false, "log one line per evaluation step")
	root.AddCommand(newRunCmd())
	return root
}

// Main runs huskscheme and returns the code for passing to os.Exit. We
// print errors ourselves rather than let cobra do it, the way cmd/cue's
// Main does, so testscript's exec-based golden tests see the same
// stderr output a real invocation would.
func Main() int {
	if err := New().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
