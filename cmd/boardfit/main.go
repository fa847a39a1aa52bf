// BoardFit - guillotine cut planner.
//
// Build:
//
//	go build -o boardfit ./cmd/boardfit
//
// Stamp a version:
//
//	go build -ldflags "-X github.com/piwi3910/BoardFit/internal/buildinfo.Version=v1.0.0" ./cmd/boardfit
package main

import "github.com/piwi3910/BoardFit/internal/cli"

func main() {
	cli.Execute()
}
