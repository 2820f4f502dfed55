package main

import "github.com/deepagents/control/frontend/cli/cmd"

func main() {
	cmd.Execute()
}
