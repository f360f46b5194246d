// donut-render draws the donut KPI visual from a data-view file.
//
//	donut-render render --input view.yaml --format svg --out donut.svg
//	donut-render settings --input view.yaml --group circleProperties
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
