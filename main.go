package main

import "github.com/jfmyers9/lastshout/cmd"

func main() {
	cmd.Execute()
}
