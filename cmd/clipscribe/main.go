package main

import (
	"clipscribe/cmd/clipscribe/cmd"
)

func main() {
	cmd.Execute()
}
