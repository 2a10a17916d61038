package main

import "ppe-manager/cmd"

func main() {
	cmd.Execute()
}
