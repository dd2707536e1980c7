package main

import "choromap/cmd/choromap/cmd"

func main() {
	cmd.Execute()
}
