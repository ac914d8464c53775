package main

import (
	cmd "github.com/gantapp/gant/cmd/gant"
	"github.com/gantapp/gant/internal"
)

var log = internal.GetLogger()

func main() {
	log.Info("Starting gant")
	cmd.Execute()
}
