package main

import "github.com/timefence/timefence/internal/cli"

func main() {
	cli.Execute()
}
