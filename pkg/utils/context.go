package utils

import (
	"context"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	RoleKey      contextKey = "role"
	SuperuserKey contextKey = "is_superuser"
	UsernameKey  contextKey = "username"
)

// Principal is the authenticated caller as seen by handlers and services.
type Principal struct {
	UserID      int64
	Username    string
	Role        string
	IsSuperuser bool
}

func (p Principal) IsAdmin() bool {
	return p.Role == "admin" || p.IsSuperuser
}

func (p Principal) IsModerator() bool {
	return p.Role == "moderator"
}

func SetUserContext(ctx context.Context, p Principal) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, p.UserID)
	ctx = context.WithValue(ctx, UsernameKey, p.Username)
	ctx = context.WithValue(ctx, RoleKey, p.Role)
	ctx = context.WithValue(ctx, SuperuserKey, p.IsSuperuser)
	return ctx
}

func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	if !ok || userID == 0 {
		return 0, false
	}
	return userID, true
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}

// GetPrincipalFromContext returns the caller set by the auth middleware.
func GetPrincipalFromContext(ctx context.Context) (Principal, bool) {
	userID, ok := GetUserIDFromContext(ctx)
	if !ok {
		return Principal{}, false
	}

	username, _ := ctx.Value(UsernameKey).(string)
	role, _ := GetRoleFromContext(ctx)
	superuser, _ := ctx.Value(SuperuserKey).(bool)

	return Principal{
		UserID:      userID,
		Username:    username,
		Role:        role,
		IsSuperuser: superuser,
	}, true
}
