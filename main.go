package main

import "github.com/tokenforge/permit721/cmd"

func main() {
	cmd.Execute()
}
