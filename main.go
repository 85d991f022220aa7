package main

import "diskmosaic/internal/cli"

func main() {
	cli.Execute()
}
