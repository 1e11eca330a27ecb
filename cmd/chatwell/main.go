package main

import "github.com/ravenmoor/chatwell/internal/cli"

func main() {
	cli.Execute()
}
