package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes carried in the legacy envelope. Clients of the original
// platform switch on these, so the values are part of the contract.
const (
	ErrorMissingSession = 1
	ErrorInvalidSession = 2
	ErrorAccessDenied   = 3
	ErrorNotFound       = 4
	ErrorInvalidParams  = 5
	ErrorServer         = 6
	ErrorUserInactive   = 7
)

// Envelope shapes every response the way the legacy API did: a JSON body
// carrying api_status alongside the payload, and on failure an errors object
// with error_id and error_text.

func OK(c *gin.Context, payload gin.H) {
	body := gin.H{"api_status": http.StatusOK}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func Fail(c *gin.Context, status int, errorID int, text string) {
	c.JSON(status, gin.H{
		"api_status": status,
		"errors": gin.H{
			"error_id":   errorID,
			"error_text": text,
		},
	})
}

func Abort(c *gin.Context, status int, errorID int, text string) {
	c.Abort()
	Fail(c, status, errorID, text)
}

// Denied is the single convention for failed authorization checks: always
// 403, never 404, so callers can tell "hidden" from "missing". Decision
// recorded in DESIGN.md; the legacy platform mixed both.
func Denied(c *gin.Context) {
	Fail(c, http.StatusForbidden, ErrorAccessDenied, "you are not allowed to view or interact with this content")
}
