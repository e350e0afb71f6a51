package main

import (
	"github.com/Ruola/haoda/cmd"
)

func main() {
	cmd.Execute()
}
