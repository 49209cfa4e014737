package main

import "atelier/cmd/atelier/commands"

func main() {
	commands.Execute()
}
