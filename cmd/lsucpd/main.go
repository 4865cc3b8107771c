package main

import "github.com/lsucpd/lsucpd/cmd/lsucpd/cmd"

func main() {
	cmd.Execute()
}
