package handlers

import (
	"fmt"
	"io"
	"strings"

	"realestatecrm/internal/attachments"

	"github.com/gofiber/fiber/v2"
)

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

// formFiles reads every file posted under field. Non-multipart requests
// carry no files.
func formFiles(c *fiber.Ctx, field string) ([]attachments.File, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("failed to parse multipart form: %w", err)
	}

	headers := form.File[field]
	files := make([]attachments.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read upload %s: %w", fh.Filename, err)
		}
		files = append(files, attachments.File{Name: fh.Filename, Data: data})
	}
	return files, nil
}
