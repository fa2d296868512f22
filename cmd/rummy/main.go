package main

import "github.com/mcoot/pointsrummy/internal/cli"

func main() {
	cli.Execute()
}
