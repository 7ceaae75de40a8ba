package main

import "distship/cmd"

func main() {
	cmd.Execute()
}
