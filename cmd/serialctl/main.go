package main

import "github.com/mamadbah2/serialpro/cmd/serialctl/commands"

func main() {
	commands.Execute()
}
