package main

import "github.com/theirongolddev/habits/cmd"

func main() {
	cmd.Execute()
}
