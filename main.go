package main

import (
	"log"

	"github.com/anoixa/fish-bed/cmd"
	"github.com/anoixa/fish-bed/config"
)

func main() {
	log.Printf("fish bed %s (%s)", config.Version, config.CommitHash)
	cmd.Execute()
}
