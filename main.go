package main

import "github.com/chriserin/stepwise/cmd"

func main() {
	cmd.Execute()
}
