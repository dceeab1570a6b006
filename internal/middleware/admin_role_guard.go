package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const RoleAdmin = "ADMIN"

// AuthJWTの後ろに置く。roleがADMINでなければ止める。
// 在庫の全削除やダミー投入など /admin 配下で使う。
func AdminRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxUserRoleKey).(string)
			switch role {
			case "":
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			case RoleAdmin:
				return next(c)
			default:
				return c.JSON(http.StatusForbidden, errorJSON("admin only"))
			}
		}
	}
}
