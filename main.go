package main

import "hikvision-sync/cmd"

func main() {
	cmd.Execute()
}
