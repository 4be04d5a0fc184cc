// Command x1-validator-keygen generates a new Ed25519 signing key for a
// bridge validator and writes it to disk, printing the hex-encoded
// public key so it can be added to the next validator-set snapshot.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/x1proto/bridge-validator/pkg/attestation"
)

func main() {
	var (
		keyPath = flag.String("key-path", "", "path to write the new Ed25519 key (required)")
		force   = flag.Bool("force", false, "overwrite an existing key at key-path")
	)
	flag.Parse()

	if *keyPath == "" {
		fmt.Fprintln(os.Stderr, "error: -key-path is required")
		flag.Usage()
		os.Exit(2)
	}

	if !*force {
		if _, err := os.Stat(*keyPath); err == nil {
			log.Fatalf("key already exists at %s, pass -force to overwrite", *keyPath)
		}
	}

	km := attestation.NewKeyManager(*keyPath)
	if err := km.GenerateNewKey(); err != nil {
		log.Fatalf("failed to generate key: %v", err)
	}

	fmt.Printf("wrote new validator key to %s\n", *keyPath)
	fmt.Printf("public key (hex): %s\n", km.PublicKeyHex())
}
