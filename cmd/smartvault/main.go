package main

import "github.com/smartvault/smartvault/cmd/smartvault/cmd"

func main() {
	cmd.Execute()
}
