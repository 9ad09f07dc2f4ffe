package main

import "github.com/signkit/cli/cmd/signkit"

func main() {
	signkit.Main()
}
