package main

import "github.com/guimove/rectfit/cmd"

func main() {
	cmd.Execute()
}
