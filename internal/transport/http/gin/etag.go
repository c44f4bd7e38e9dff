package httpgin

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// writeJSONWithCache writes v as JSON with an ETag and Cache-Control.
// A matching If-None-Match yields 304 with no body.
func writeJSONWithCache(
	c *gin.Context,
	status int,
	v any,
	cacheControl string,
	weak bool,
) {
	b, err := json.Marshal(v)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: msgInternal})
		return
	}

	tag := etagOf(b, weak)
	c.Header("ETag", tag)
	if cacheControl != "" {
		c.Header("Cache-Control", cacheControl)
	}

	if etagMatches(c.GetHeader("If-None-Match"), tag) {
		c.Status(http.StatusNotModified)
		return
	}

	c.Data(status, "application/json; charset=utf-8", b)
}

func etagOf(body []byte, weak bool) string {
	sum := sha256.Sum256(body)
	tag := `"` + hex.EncodeToString(sum[:16]) + `"`
	if weak {
		tag = "W/" + tag
	}
	return tag
}

// etagMatches compares weakly, so "abc" matches W/"abc" and * matches anything.
func etagMatches(inm, tag string) bool {
	if inm == "" {
		return false
	}
	if inm == "*" {
		return true
	}

	opaque := func(s string) string {
		s = strings.TrimSpace(s)
		return strings.TrimPrefix(s, "W/")
	}

	want := opaque(tag)
	for _, cand := range strings.Split(inm, ",") {
		if opaque(cand) == want {
			return true
		}
	}
	return false
}
