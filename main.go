package main

import "github.com/gnames/spidermap/cmd"

func main() {
	cmd.Execute()
}
