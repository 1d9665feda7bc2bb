package main

import (
	"github.com/codeviz-ai/codeviz/cmd"
)

func main() {
	cmd.Execute()
}
