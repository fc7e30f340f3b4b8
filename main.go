package main

import "screenpilot/cmd"

func main() {
	cmd.Execute()
}
