package main

import "github.com/rskv-p/busmatch/cmd"

func main() {
	cmd.Execute()
}
