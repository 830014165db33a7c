package saves

import (
	"github.com/KirkDiggler/blur-battle/internal/entities"
	battleerr "github.com/KirkDiggler/blur-battle/internal/errors"
)

func notFound(profileID string) error {
	return battleerr.NotFoundf("save for profile '%s' not found", profileID).
		WithMeta("profile_id", profileID)
}

func validateSave(save *entities.GameSave) error {
	if save == nil {
		return battleerr.InvalidArgument("save cannot be nil")
	}
	if save.ProfileID == "" {
		return battleerr.InvalidArgument("profile ID is required")
	}
	return nil
}
