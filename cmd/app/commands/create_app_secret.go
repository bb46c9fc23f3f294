package commands

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// RunCreateAppSecret generates a cryptographically secure 32-byte application
// secret used as the server-side half of per-user key derivation. Key material
// is zeroed from memory after encoding.
//
// Output format:
//   - APP_SECRET_KEY="<base64-encoded-secret>"
func RunCreateAppSecret(out io.Writer) error {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return fmt.Errorf("failed to generate application secret: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(secret)

	fmt.Fprintln(out, "# Application Secret Configuration")
	fmt.Fprintln(out, "# Copy this environment variable to your .env file or secrets manager.")
	fmt.Fprintln(out, "# Rotating it invalidates every stored ciphertext, so keep it stable.")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "APP_SECRET_KEY=\"%s\"\n", encoded)

	for i := range secret {
		secret[i] = 0
	}

	return nil
}
