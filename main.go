package main

import (
	_ "embed"

	"github.com/haierkeys/versioned-notes-service/cmd"
)

//go:embed config/config.yaml
var c string

func main() {
	cmd.Execute(c)
}
