package api

import (
	"biosearch/app/service/tabular"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const tsvContentType = "text/tab-separated-values; charset=utf-8"

type matrixBody struct {
	Rows        [][]string `json:"rows"`
	Rectangular bool       `json:"rectangular"`
}

type renderRequest struct {
	Rows [][]string `json:"rows" validate:"required"`
}

// handleTabularParse accepts either a raw tab-delimited body or a multipart form
// with a file field and an optional apiKey field.
func (s *Server) handleTabularParse(c *fiber.Ctx) error {
	text, err := s.uploadedText(c)
	if err != nil {
		return err
	}

	rows := tabular.Parse(text)

	return c.JSON(matrixBody{Rows: rows, Rectangular: tabular.Rectangular(rows)})
}

func (s *Server) uploadedText(c *fiber.Ctx) (string, error) {
	contentType := string(c.Request().Header.ContentType())
	if !strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		return string(c.Body()), nil
	}

	if key := c.FormValue("apiKey"); key != "" {
		if err := tabular.ValidateAPIKey(key); err != nil {
			return "", err
		}
	}

	header, err := c.FormFile("file")
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "missing file")
	}

	file, err := header.Open()
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "unreadable file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "unreadable file")
	}

	return string(data), nil
}

func (s *Server) handleTabularRender(c *fiber.Ctx) error {
	var req renderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid matrix")
	}

	if err := s.validate.Struct(req); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, tsvContentType)

	return c.SendString(tabular.Render(req.Rows))
}
