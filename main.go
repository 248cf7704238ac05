package main

import "impc/cmd"

func main() {
	cmd.Execute()
}
