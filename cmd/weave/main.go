// Command weave is the CLI front end for the Weave scripting engine.
package main

import "github.com/weave-lang/weave/cmd/weave/cmd"

func main() {
	cmd.Execute()
}
