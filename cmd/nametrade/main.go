// nametrade prepares, signs and submits offers that trade a Namecoin name
// for coins without a trusted third party.
//
// Offers are printed to stdout as a text block that can be pasted into an
// email or chat message. Logs and prompts go to stderr.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := newApp()
	err := newRootCmd(a).ExecuteContext(ctx)
	a.teardown()
	stop()
	if err != nil {
		fatal("%v", err)
	}
}

// fatal prints an error in the standard format and exits.
func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
