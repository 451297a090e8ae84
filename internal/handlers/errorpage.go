package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// imageTextReplacer escapes the characters with special meaning in the
// image-generation URL path.
var imageTextReplacer = strings.NewReplacer(
	"-", "--",
	"_", "__",
	"%", "~p",
	"#", "~h",
	"/", "~s",
	"?", "~q",
	"\"", "''",
	" ", "-",
)

// escapeImageText makes a text fragment safe for embedding in the external
// image-generation URL.
func escapeImageText(s string) string {
	return imageTextReplacer.Replace(s)
}

// renderError writes the themed error payload: the error itself plus two
// text fields escaped for the external image-generation service.
func renderError(c *gin.Context, status int, code, message string) {
	top := escapeImageText(code)
	bottom := escapeImageText(message)

	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
		"image": gin.H{
			"top":    top,
			"bottom": bottom,
			"url":    "https://api.memegen.link/images/custom/" + top + "/" + bottom + ".png",
		},
	})
}

// NotFound handles requests for unknown routes.
func NotFound(c *gin.Context) {
	renderError(c, http.StatusNotFound, "NOT_FOUND", "The page you requested does not exist")
}
