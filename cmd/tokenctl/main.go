// tokenctl manages carga query API tokens. Secrets are printed once at
// creation and stored server-side; revocation deactivates rather than
// deletes, so request logs keep their token reference.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"

	"zapirelay/internal/database"
)

func main() {
	dbPath := flag.String("db", "./zapirelay.db", "Path to the database file")
	create := flag.String("create", "", "Create a new token with the given label")
	revoke := flag.Int64("revoke", 0, "Deactivate the token with the given id")
	list := flag.Bool("list", false, "List all tokens")
	flag.Parse()

	db, err := database.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	switch {
	case *create != "":
		createToken(ctx, db, *create)
	case *revoke != 0:
		revokeToken(ctx, db, *revoke)
	case *list:
		listTokens(ctx, db)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func createToken(ctx context.Context, db *database.Database, label string) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}
	token := hex.EncodeToString(secret)

	id, err := db.CreateAPIToken(ctx, token, label)
	if err != nil {
		log.Fatalf("Failed to create token: %v", err)
	}

	fmt.Printf("Created token %d (%s)\n", id, label)
	fmt.Printf("Secret (shown once, store it now): %s\n", token)
}

func revokeToken(ctx context.Context, db *database.Database, id int64) {
	if err := db.DeactivateAPIToken(ctx, id); err != nil {
		log.Fatalf("Failed to revoke token %d: %v", id, err)
	}
	fmt.Printf("Token %d deactivated\n", id)
}

func listTokens(ctx context.Context, db *database.Database) {
	tokens, err := db.ListAPITokens(ctx)
	if err != nil {
		log.Fatalf("Failed to list tokens: %v", err)
	}

	if len(tokens) == 0 {
		fmt.Println("No tokens")
		return
	}

	fmt.Printf("%-6s %-24s %-8s %-20s %s\n", "ID", "LABEL", "ACTIVE", "LAST USED", "CREATED")
	for _, t := range tokens {
		lastUsed := "never"
		if t.LastUsedAt != nil {
			lastUsed = t.LastUsedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Printf("%-6d %-24s %-8t %-20s %s\n",
			t.ID, t.Label, t.Active, lastUsed, t.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}
