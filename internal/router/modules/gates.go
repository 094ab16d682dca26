package modules

import "github.com/gin-gonic/gin"

// Gates are the auth middlewares a module may put in front of a handler.
type Gates struct {
	User  gin.HandlerFunc
	Admin gin.HandlerFunc
}
