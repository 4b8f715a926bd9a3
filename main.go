package main

import "github.com/asutherland/sysex-mapatron/internal/cli"

func main() {
	cli.Execute()
}
