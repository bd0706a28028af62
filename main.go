package main

import "healthwallet/internal/cli"

func main() {
	cli.Execute()
}
