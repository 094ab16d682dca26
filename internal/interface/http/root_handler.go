package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aros-club/aros-api/pkg/response"
)

// RootHandler serves the greeting and the members-only placeholders.
type RootHandler struct{}

func NewRootHandler() *RootHandler { return &RootHandler{} }

func (h *RootHandler) Greeting(c *gin.Context) {
	c.String(http.StatusOK, "Hello Ivett")
}

func (h *RootHandler) Settings(c *gin.Context) {
	response.Message(c, http.StatusOK, "you got access to the members only section")
}

func (h *RootHandler) SecretPages(c *gin.Context) {
	c.String(http.StatusOK, "hola")
}
