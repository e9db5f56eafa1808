package main

import "github.com/Mohsinsiddi/minedash/cmd"

func main() {
	cmd.Execute()
}
