package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	flag.Parse()

	token := flag.Arg(0)
	generated := false
	if token == "" {
		buf := make([]byte, 24)
		if _, err := rand.Read(buf); err != nil {
			slog.Error("failed to generate token", "error", err)
			os.Exit(1)
		}
		token = hex.EncodeToString(buf)
		generated = true
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(token), *cost)
	if err != nil {
		slog.Error("failed to hash token", "error", err)
		os.Exit(1)
	}

	if generated {
		fmt.Printf("Token: %s\n", token)
	}
	fmt.Printf("API_TOKEN_HASH='%s'\n", hash)
}
