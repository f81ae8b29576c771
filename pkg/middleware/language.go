package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const ContextLanguage = "language"

// LanguageMiddleware negotiates the request language from Accept-Language
// against the supported set. The first supported tag is the fallback.
func LanguageMiddleware(supported []string) gin.HandlerFunc {
	tags := make([]language.Tag, 0, len(supported))
	for _, code := range supported {
		tags = append(tags, language.Make(code))
	}
	matcher := language.NewMatcher(tags)

	return func(c *gin.Context) {
		accept := c.GetHeader("Accept-Language")
		wanted, _, err := language.ParseAcceptLanguage(accept)
		if err != nil || len(wanted) == 0 {
			c.Set(ContextLanguage, supported[0])
			c.Next()
			return
		}

		_, index, confidence := matcher.Match(wanted...)
		if confidence == language.No {
			index = 0
		}
		c.Set(ContextLanguage, supported[index])
		c.Next()
	}
}
