package main

import "github.com/mj1618/tabshuttle/cmd"

func main() {
	cmd.Execute()
}
