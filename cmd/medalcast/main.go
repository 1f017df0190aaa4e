package main

import "github.com/okian/medalcast/internal/cli"

func main() {
	cli.Execute()
}
