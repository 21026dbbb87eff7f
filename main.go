// SPDX-License-Identifier: MPL-2.0

package main

import cmd "scripts-cli/cmd/install"

func main() {
	cmd.Execute()
}
