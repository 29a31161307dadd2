package main

import "github.com/pfrederiksen/lovetrack/internal/cli"

func main() {
	cli.Execute()
}
