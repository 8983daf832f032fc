// Command modulecreditsctl inspects and maintains the module record store
// from the shell: list records, print the progress report, import a CSV
// file or clear everything.
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
