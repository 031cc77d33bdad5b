package api

import (
	"biosearch/app/graph"
	"biosearch/app/graph/query"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type sideRequest struct {
	Attribute string `json:"attribute" validate:"max=256"`
	Value     string `json:"value" validate:"max=1024"`
	Reference string `json:"reference" validate:"max=256"`
}

type searchRequest struct {
	Session      string      `json:"session" validate:"max=128"`
	Page         int         `json:"page" validate:"min=0"`
	Left         sideRequest `json:"left"`
	Right        sideRequest `json:"right"`
	Relationship string      `json:"relationship" validate:"omitempty,max=64,reltype"`
}

func (r searchRequest) input() query.Input {
	return query.Input{
		Left:         query.Side(r.Left),
		Right:        query.Side(r.Right),
		Relationship: r.Relationship,
	}.Normalize()
}

func (s *Server) handleSearch(c *fiber.Ctx) error {
	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid search request")
	}

	in := req.input()
	req.Relationship = in.Relationship
	if err := s.validate.Struct(req); err != nil {
		return err
	}

	session := c.Get(SessionHeader, req.Session)
	if session == "" {
		session = uuid.NewString()
	}
	c.Set(SessionHeader, session)

	page := req.Page
	if page == 0 {
		page = 1
	}

	res, err := s.searchSvc.Search(c.UserContext(), session, in, page)
	if err != nil {
		return err
	}

	return c.JSON(res)
}

func (s *Server) handleExamples(c *fiber.Ctx) error {
	return c.JSON(query.Examples)
}

func (s *Server) handleRelationships(c *fiber.Ctx) error {
	return c.JSON(graph.KnownRelationships)
}
