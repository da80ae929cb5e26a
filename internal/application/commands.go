package application

import (
	"strings"

	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/domain"
)

type LoginCommand struct {
	UserID string
	Role   domain.Role
}

func NewLoginCommand(userID string, rawRole string) (LoginCommand, error) {
	if strings.TrimSpace(rawRole) == "" {
		rawRole = string(domain.RoleStudent)
	}
	role, err := domain.ParseRole(rawRole)
	if err != nil {
		return LoginCommand{}, err
	}

	cmd := LoginCommand{UserID: strings.TrimSpace(userID), Role: role}
	if cmd.UserID == "" {
		return LoginCommand{}, ErrUserIDRequired
	}
	return cmd, nil
}
