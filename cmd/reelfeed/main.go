package main

import (
	"reelfeed/internal/cmd"
)

func main() {
	cmd.Run()
}
