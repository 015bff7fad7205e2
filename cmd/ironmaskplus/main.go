// Command ironmaskplus is the CLI entrypoint. All flag wiring and logic
// lives in pkg/cmd; this stays a thin call-through the way go-corset's
// cmd/main.go hands off to pkg/cmd.Execute.
package main

import "github.com/AbdulRahmanTaleb/IronMaskPlus/pkg/cmd"

func main() {
	cmd.Execute()
}
