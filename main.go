package main

import "github.com/jwalton/tabdl/cmd"

func main() {
	cmd.Execute()
}
