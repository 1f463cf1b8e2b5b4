package main

import "binserve/cmd"

func main() {
	cmd.Execute()
}
