package server

import (
	"socialapi/internal/models"
	"socialapi/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Vote handles POST /vote/ with body {"post_id": n, "dir": 0|1}.
func (s *Server) Vote(c *fiber.Ctx) error {
	var req struct {
		PostID uint `json:"post_id"`
		Dir    *int `json:"dir"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}
	if req.PostID == 0 || req.Dir == nil {
		return respondError(c, models.NewValidationError("post_id and dir are required"))
	}

	msg, err := s.voteService.CastVote(c.UserContext(), service.CastVoteInput{
		UserID: currentUserID(c),
		PostID: req.PostID,
		Dir:    *req.Dir,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": msg})
}
