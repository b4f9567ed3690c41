package main

import "github.com/oblipix/viagemimpacta/internal/cli"

func main() {
	cli.Execute()
}
