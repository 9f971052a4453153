package main

import "mspro-labs/sole-scout/cmd"

func main() {
	cmd.Execute()
}
