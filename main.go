package main

import "github.com/nesh-sh/nesh/cmd"

func main() {
	cmd.Execute()
}
