package main

import "pbfiles/cmd"

func main() {
	cmd.Execute()
}
