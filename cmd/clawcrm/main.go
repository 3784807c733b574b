package main

import "github.com/marcobit/clawcrm/internal/cmd"

func main() {
	cmd.Execute()
}
