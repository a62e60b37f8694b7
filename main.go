// Package main is the entry point for the prettymap CLI.
package main

import "github.com/mouse-blink/prettymap/cmd"

func main() {
	cmd.Execute()
}
