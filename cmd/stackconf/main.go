package main

import "github.com/stackconf/stackconf/pkg/cli"

func main() {
	cli.Execute()
}
