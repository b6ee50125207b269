package main

import "github.com/pders01/interview/cmd"

func main() {
	cmd.Execute()
}
