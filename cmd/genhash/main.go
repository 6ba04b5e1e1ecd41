// cmd/genhash/main.go: prints the bcrypt hash of a PIN, for seeding users
// by hand. Usage: go run ./cmd/genhash 4821
package main

import (
	"fmt"
	"os"

	"ebucks/internal/config"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: genhash <pin>")
		os.Exit(2)
	}
	cost := bcrypt.DefaultCost
	if cfg, err := config.Load(); err == nil && cfg.PINHashCost >= bcrypt.MinCost {
		cost = cfg.PINHashCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(os.Args[1]), cost)
	if err != nil {
		panic(err)
	}
	fmt.Println(string(h))
}
