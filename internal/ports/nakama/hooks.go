package nakama

import (
	"context"
	"database/sql"

	"mindikot/internal/app/onboarding"
	"mindikot/internal/config"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// AfterAuthenticateEmail runs after an email authentication. It guarantees a
// stored profile exists for the address, granting the starting coins on the
// first login.
func AfterAuthenticateEmail(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, out *api.Session, in *api.AuthenticateEmailRequest) error {
	email := ""
	if account := in.GetAccount(); account != nil {
		email = account.GetEmail()
	}
	if email == "" {
		logger.Warn("AfterAuthenticateEmail: No email on request, skipping onboarding.")
		return nil
	}

	startingCoins := int64(0)
	if cfg := config.GetGameConfig(); cfg != nil {
		startingCoins = cfg.StartingCoins
	}

	service := onboarding.NewService(NewNakamaProfileAdapter(nk), nil, startingCoins)
	result, err := service.EnsureProfile(ctx, email, in.GetUsername())
	if err != nil {
		logger.Error("AfterAuthenticateEmail: Onboarding failed for %s: %v", email, err)
		return err
	}
	if result.Created {
		logger.Info("AfterAuthenticateEmail: Created profile for %s with %d coins.", email, result.Profile.Coins)
	}
	return nil
}
