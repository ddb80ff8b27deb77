package main

import "clarity/cmd"

func main() {
	cmd.Execute()
}
