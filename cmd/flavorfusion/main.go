package main

import "github.com/nfrund/flavorfusion/cmd/flavorfusion/cmd"

func main() {
	cmd.Execute()
}
