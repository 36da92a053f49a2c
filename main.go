package main

import "github.com/bibliodrift/shelflink/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
