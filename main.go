package main

import "github.com/nextlevelbuilder/lineclaw/cmd"

func main() {
	cmd.Execute()
}
