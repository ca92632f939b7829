package main

import "loc-converter/internal/cli"

func main() {
	cli.Execute()
}
