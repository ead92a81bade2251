// Command codeguard parses @guard source annotations and serves the
// worker protocol a host editor talks to over stdio.
package main

import (
	"log"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
