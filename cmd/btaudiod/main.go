// SPDX-License-Identifier: AGPL-3.0-or-later
// DMRHub - Run a DMR network server in a single binary
// Copyright (C) 2023-2026 Jacob McSwain
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// The source code is available at <https://github.com/USA-RedDragon/DMRHub>

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/USA-RedDragon/btaudiod/internal/config"
	"github.com/USA-RedDragon/configulator"
)

// version and commit are overridden at build time via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	c, err := configulator.New[config.Config]()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create configulator:", err)
		os.Exit(1)
	}

	cmd := NewCommand(version, commit)
	if err := c.CobraFlags(cmd); err != nil {
		fmt.Fprintln(os.Stderr, "failed to bind config flags:", err)
		os.Exit(1)
	}

	ctx := c.ToContext(context.Background())
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
