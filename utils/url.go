package utils

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UploadsPrefix is where stored files are served from.
const UploadsPrefix = "/uploads"

// GetUploadURL builds an absolute URL for a stored relative path.
func GetUploadURL(c *fiber.Ctx, relPath string) string {
	relPath = strings.TrimPrefix(relPath, "/")
	return fmt.Sprintf("%s://%s%s/%s", c.Protocol(), c.Hostname(), UploadsPrefix, relPath)
}
