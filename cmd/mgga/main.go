// Command mgga anonymizes delimited tables to a k-anonymity threshold,
// either exhaustively (mg) or with a genetic optimizer (ga).
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "mgga:", err)
		os.Exit(1)
	}
}
