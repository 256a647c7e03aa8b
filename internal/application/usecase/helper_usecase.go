// internal/application/usecase/helper_usecase.go
package usecase

import (
	"fmt"
	"strings"

	"storefront/internal/domain/common"
)

// ErrUserIDEmpty is returned when the authenticated user id is missing.
var ErrUserIDEmpty = fmt.Errorf("%w: userId is empty", common.ErrInvalidArgument)

func normalizeUserID(userID string) (string, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return "", ErrUserIDEmpty
	}
	return uid, nil
}
