package main

import "github.com/kokoro-care/kokoro/internal/cli"

func main() {
	cli.Execute()
}
