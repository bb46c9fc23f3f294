package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	identityUseCase "github.com/allisson/datavault/internal/identity/usecase"
)

// RunCreateUser provisions a user ahead of their first OAuth login, for
// example to seed a staging environment. The encryption salt is generated by
// the use case exactly as it would be on a real first login; running the
// command again for the same subject is a no-op that prints the existing
// user.
func RunCreateUser(
	ctx context.Context,
	userUseCase identityUseCase.UseCase,
	logger *slog.Logger,
	out io.Writer,
	googleID, email, name, format string,
) error {
	logger.Info("creating user", slog.String("email", email))

	user, err := userUseCase.GetOrCreateUser(ctx, identityUseCase.OAuthProfile{
		GoogleID: googleID,
		Email:    email,
		Name:     name,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if format == "json" {
		result := map[string]interface{}{
			"id":    user.ID.String(),
			"email": user.Email,
			"name":  user.Name,
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(out, string(jsonBytes))
	} else {
		fmt.Fprintf(out, "User created\n")
		fmt.Fprintf(out, "  ID:    %s\n", user.ID)
		fmt.Fprintf(out, "  Email: %s\n", user.Email)
		fmt.Fprintf(out, "  Name:  %s\n", user.Name)
	}

	logger.Info("user ready", slog.String("user_id", user.ID.String()))

	return nil
}
