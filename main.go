package main

import "github.com/notargets/goinflow/cmd"

func main() {
	cmd.Execute()
}
