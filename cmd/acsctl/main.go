package main

import "github.com/mcoot/acs-tournaments/internal/cli"

func main() {
	cli.Execute()
}
