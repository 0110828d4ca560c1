// Package main prints a bcrypt hash for an admin PIN, for use as
// REGISTER_ADMIN_PIN_HASH.
package main

import (
	"bufio"
	"fmt"
	"os"

	"kassa/internal/domain/auth"
)

func main() {
	var pin string
	if len(os.Args) > 1 {
		pin = os.Args[1]
	} else {
		fmt.Fprint(os.Stderr, "PIN: ")
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			pin = scanner.Text()
		}
	}

	hash, err := auth.HashPin(pin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash PIN: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
