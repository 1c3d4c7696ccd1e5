package main

import "grand-staff/cmd"

func main() {
	cmd.Execute()
}
