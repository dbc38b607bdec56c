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

// Command huskscheme is a thin CLI driver over internal/core/runtime: it
// loads source files, evaluates their top-level forms, and prints a
// pass/fail summary. It is explicitly not part of the core (spec section 1
// keeps the lexical/syntactic parser, the macro expander, and the CLI
// driver itself as external collaborators) -- everything here is a
// consumer of the embedding API, the way cmd/cue is a thin consumer of
// cuelang.org/go/cue.
package main

import (
	"os"

	"github.com/nakayama900/husk-scheme/cmd/huskscheme/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}
