// SPDX-License-Identifier: AGPL-3.0-or-later
// dumphfdl-go - an HFDL datalink receiver and decoder
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

package main

import (
	"fmt"
	"os"

	"github.com/dumphfdl/dumphfdl-go/cmd"
	"github.com/dumphfdl/dumphfdl-go/internal/sdk"
)

func main() {
	command := cmd.NewCommand(sdk.Version, sdk.GitCommit)
	if err := command.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
