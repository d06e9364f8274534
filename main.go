package main

import "github.com/jcdickinson/docsrs-mcp/cmd"

func main() {
	cmd.Execute()
}
