// Package main provides a CLI tool for generating test tokens for the
// PermitDesk API. These tokens use the dev signing key and will NOT work
// in production.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"permitdesk/internal/jwttoken"
	"permitdesk/pkg/secrets"

	"github.com/google/uuid"
)

const (
	// Dev signing key - matches config.go when JWT_SIGNING_KEY is not set
	devSigningKey = "dev-secret-key-change-in-production"

	// Default values matching production config
	defaultIssuer   = "permitdesk"
	defaultAudience = "permitdesk-api"
	defaultTokenTTL = 15 * time.Minute
)

type tokenOutput struct {
	Token     string            `json:"token"`
	Type      string            `json:"type"`
	ExpiresIn string            `json:"expires_in,omitempty"`
	Claims    map[string]any    `json:"claims,omitempty"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	// Subcommands
	accessCmd := flag.NewFlagSet("access", flag.ExitOnError)
	secretCmd := flag.NewFlagSet("secret", flag.ExitOnError)

	// Access token flags
	accessActorID := accessCmd.String("actor-id", "", "Actor ID (UUID). Generated if empty.")
	accessName := accessCmd.String("display-name", "Test Manager", "Display name claim")
	accessRole := accessCmd.String("role", "manager", "Role claim")
	accessTTL := accessCmd.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	accessKey := accessCmd.String("signing-key", devSigningKey, "HMAC signing key")
	accessJSON := accessCmd.Bool("json", false, "Output as JSON")

	// Secret flags
	secretJSON := secretCmd.Bool("json", false, "Output as JSON")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "access":
		accessCmd.Parse(os.Args[2:])
		generateAccessToken(*accessActorID, *accessName, *accessRole, *accessKey, *accessTTL, *accessJSON)
	case "secret":
		secretCmd.Parse(os.Args[2:])
		generateSecret(*secretJSON)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tokengen - Generate test tokens for the PermitDesk API

WARNING: These tokens use the dev signing key and will NOT work in production.
         Only use for local development and testing.

Usage:
  tokengen <command> [flags]

Commands:
  access    Generate an access token (JWT)
  secret    Generate a random signing secret

Examples:
  # Generate access token with defaults
  tokengen access

  # Generate access token for a specific manager
  tokengen access -actor-id "550e8400-e29b-41d4-a716-446655440000"

  # Generate an admin token with a custom TTL
  tokengen access -role admin -ttl 1h

  # Generate a signing secret for JWT_SIGNING_KEY
  tokengen secret

  # Output as JSON
  tokengen access -json

Use "tokengen <command> -h" for more information about a command.`)
}

func generateAccessToken(actorID, displayName, role, signingKey string, ttl time.Duration, jsonOutput bool) {
	keyType := "custom"
	if signingKey == devSigningKey {
		keyType = "dev"
	}

	aid := parseOrGenerateUUID(actorID, "actor-id")

	svc := jwttoken.NewService(signingKey, defaultIssuer, defaultAudience)

	token, err := svc.GenerateAccessToken(aid, displayName, role, ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	if jsonOutput {
		output := tokenOutput{
			Token:     token,
			Type:      "access_token",
			ExpiresIn: ttl.String(),
			Claims: map[string]any{
				"actor_id":     aid.String(),
				"display_name": displayName,
				"role":         role,
			},
			Usage: map[string]string{
				"header":      "Authorization: Bearer <token>",
				"signing_key": keyType,
			},
		}
		printJSON(output)
	} else {
		fmt.Println("Access Token (JWT)")
		fmt.Println("==================")
		fmt.Printf("Signing Key:  %s\n", keyType)
		fmt.Printf("Expires In:   %s\n", ttl)
		fmt.Printf("Actor ID:     %s\n", aid)
		fmt.Printf("Display Name: %s\n", displayName)
		fmt.Printf("Role:         %s\n", role)
		fmt.Println()
		fmt.Println("Token:")
		fmt.Println(token)
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  curl -H \"Authorization: Bearer <token>\" http://localhost:8080/owners/<id>/verification")
	}
}

func generateSecret(jsonOutput bool) {
	secret, err := secrets.Generate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating secret: %v\n", err)
		os.Exit(1)
	}

	if jsonOutput {
		output := tokenOutput{
			Token: secret,
			Type:  "signing_secret",
			Usage: map[string]string{
				"env": "JWT_SIGNING_KEY=" + secret,
			},
		}
		printJSON(output)
	} else {
		fmt.Println("Signing Secret")
		fmt.Println("==============")
		fmt.Printf("Secret: %s\n", secret)
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  export JWT_SIGNING_KEY=" + secret)
	}
}

func parseOrGenerateUUID(input, fieldName string) uuid.UUID {
	if input == "" {
		return uuid.New()
	}
	parsed, err := uuid.Parse(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid %s UUID: %s\n", fieldName, input)
		os.Exit(1)
	}
	return parsed
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
