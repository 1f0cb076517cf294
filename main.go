// Package main is the entry point for the sift application
package main

import (
	"github.com/siftlabs/sift/cmd"
)

func main() {
	cmd.Execute()
}
