package service

import (
	"context"
	"fmt"

	"socialapi/internal/models"
	"socialapi/internal/observability"
	"socialapi/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// Vote directions accepted by CastVote.
const (
	VoteRemove = 0
	VoteAdd    = 1
)

const (
	MsgVoteAdded   = "successfully added vote"
	MsgVoteDeleted = "successfully deleted vote"
)

type VoteService struct {
	voteRepo repository.VoteRepository
	postRepo repository.PostRepository
}

type CastVoteInput struct {
	UserID uint
	PostID uint
	Dir    int
}

func NewVoteService(voteRepo repository.VoteRepository, postRepo repository.PostRepository) *VoteService {
	return &VoteService{voteRepo: voteRepo, postRepo: postRepo}
}

// CastVote adds (dir 1) or removes (dir 0) the user's vote and returns the
// confirmation message.
func (s *VoteService) CastVote(ctx context.Context, in CastVoteInput) (string, error) {
	ctx, span := observability.StartSpan(ctx, "service.VoteService.CastVote",
		attribute.Int64("post.id", int64(in.PostID)),
		attribute.Int("vote.dir", in.Dir),
	)
	msg, err := s.castVote(ctx, in)
	observability.EndSpan(span, err)
	return msg, err
}

func (s *VoteService) castVote(ctx context.Context, in CastVoteInput) (string, error) {
	if in.Dir != VoteAdd && in.Dir != VoteRemove {
		return "", models.NewValidationError("dir must be 0 or 1")
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return "", err
	}
	if post == nil {
		return "", postDoesNotExist(in.PostID)
	}

	existing, err := s.voteRepo.Find(ctx, in.UserID, in.PostID)
	if err != nil {
		return "", err
	}

	if in.Dir == VoteAdd {
		if existing != nil {
			return "", models.NewConflictError(fmt.Sprintf("user %d has already voted on post %d", in.UserID, in.PostID))
		}
		if err := s.voteRepo.Create(ctx, &models.Vote{UserID: in.UserID, PostID: in.PostID}); err != nil {
			return "", err
		}
		return MsgVoteAdded, nil
	}

	if existing == nil {
		return "", &models.AppError{Code: models.CodeNotFound, Message: "vote does not exist"}
	}
	removed, err := s.voteRepo.Delete(ctx, in.UserID, in.PostID)
	if err != nil {
		return "", err
	}
	if removed == 0 {
		return "", &models.AppError{Code: models.CodeNotFound, Message: "vote does not exist"}
	}
	return MsgVoteDeleted, nil
}
