package main

import "github.com/nfrund/stucruum/cmd/server/cmd"

func main() {
	cmd.Execute()
}
