package main

import "github.com/mcp-telegram/mcp-telegram/cmd"

func main() {
	cmd.Execute()
}
