package main

import "github.com/KaramelBytes/workgen-cli/cmd"

func main() {
	cmd.Execute()
}
