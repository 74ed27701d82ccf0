package main

import "wingman/cmd"

func main() {
	cmd.Execute()
}
