package main

import (
	"github.com/sw33tLie/rumscope/cmd"
)

func main() {
	cmd.Execute()
}
