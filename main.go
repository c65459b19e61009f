package main

import "github.com/Tiliavir/remylog/cmd"

func main() {
	cmd.Execute()
}
