// Command hashpassword prints a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
// The password is read from the first line of stdin.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"share-portal/pkg/password"
)

func main() {
	cost := flag.Int("cost", password.DefaultCost, "bcrypt cost")
	flag.Parse()

	log.SetFlags(0)

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		log.Fatalf("failed to read password from stdin: %v", err)
	}

	hash, err := password.HashWithCost(strings.TrimRight(line, "\r\n"), *cost)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(hash)
}
