package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
)

// generateKey creates a random 256-bit signing key for flash tokens.
func generateKey() []byte {
	key := make([]byte, 32) // 32 bytes = 256 bits
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("Unable to generate key: %v", err)
	}
	return key
}

func main() {
	// Generate and display the signing key. Deploy it through the
	// RETENCION_SECRETS_SIGNINGKEY environment variable.
	key := generateKey()
	fmt.Println("Generated Key (hex):", hex.EncodeToString(key))
}
