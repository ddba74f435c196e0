package main

import "github.com/mcoot/wordcrush/internal/cli"

func main() {
	cli.Execute()
}
