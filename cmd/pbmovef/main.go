package main

import "pbfiles/cmd"

func main() {
	cmd.ExecuteTool(cmd.MoveTool())
}
