package main

import "github.com/panyam/minsc/cmd/minsc/commands"

func main() {
	commands.Execute()
}
