package main

import (
	"log"

	"github.com/Gaubee/walkfs/cmd"
)

func main() {
	log.SetFlags(0)
	if err := cmd.Execute(); err != nil {
		log.Fatalf("walkfs: %v", err)
	}
}
