package auth

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

const (
	XUserNameHeader = "X-User-Name"
	XUserRoleHeader = "X-User-Role"

	RoleMember    = "member"
	RoleLibrarian = "librarian"
	RoleAdmin     = "admin"
)

type ctxKey int

const (
	userNameKey ctxKey = iota + 1
	userRoleKey
)

var ErrNoUser = errors.New("user-name is empty")

func SetAuthContext(ctx context.Context, userName, role string) context.Context {
	ctx = context.WithValue(ctx, userNameKey, userName)
	return context.WithValue(ctx, userRoleKey, role)
}

func GetUserName(ctx context.Context) (string, error) {
	name, ok := ctx.Value(userNameKey).(string)
	if !ok || name == "" {
		return "", ErrNoUser
	}
	return name, nil
}

func GetUserRole(ctx context.Context) string {
	role, _ := ctx.Value(userRoleKey).(string)
	return role
}

func IsAdmin(ctx context.Context) bool {
	return GetUserRole(ctx) == RoleAdmin
}

// IsStaff reports whether the caller may manage inventory and declare losses.
func IsStaff(ctx context.Context) bool {
	role := GetUserRole(ctx)
	return role == RoleAdmin || role == RoleLibrarian
}

// SetAuthHeader propagates the caller identity to a downstream request.
func SetAuthHeader(ctx context.Context, req *http.Request) {
	if name, err := GetUserName(ctx); err == nil {
		req.Header.Set(XUserNameHeader, name)
	}
	if role := GetUserRole(ctx); role != "" {
		req.Header.Set(XUserRoleHeader, role)
	}
}
