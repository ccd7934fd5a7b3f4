package services

import (
	"context"
	"errors"
	"fmt"

	"venture-chat/internal/apperrors"
	"venture-chat/internal/logging"
	"venture-chat/internal/models"
	"venture-chat/internal/repositories"
)

// FriendService handles connection requests between users and notifies the
// counterpart of every change.
type FriendService struct {
	requests repositories.FriendRequestRepository
	users    repositories.UserRepository
	blocks   *BlockRegistry
	notifier *Notifier
	events   EventPublisher
	log      logging.Logger
}

func NewFriendService(
	requests repositories.FriendRequestRepository,
	users repositories.UserRepository,
	blocks *BlockRegistry,
	notifier *Notifier,
	events EventPublisher,
	log logging.Logger,
) *FriendService {
	return &FriendService{
		requests: requests,
		users:    users,
		blocks:   blocks,
		notifier: notifier,
		events:   events,
		log:      log.With("component", "friends"),
	}
}

// Send creates a PENDING request from senderID to receiverID.
func (s *FriendService) Send(ctx context.Context, senderID, receiverID int) (models.FriendRequest, error) {
	if receiverID <= 0 {
		return models.FriendRequest{}, apperrors.Validation("receiverId is required")
	}
	if senderID == receiverID {
		return models.FriendRequest{}, apperrors.Validation("cannot send a friend request to yourself")
	}
	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return models.FriendRequest{}, s.userErr(err)
	}
	if _, err := s.users.GetByID(ctx, receiverID); err != nil {
		return models.FriendRequest{}, s.userErr(err)
	}
	if err := s.blocks.CheckDelivery(ctx, senderID, receiverID); err != nil {
		return models.FriendRequest{}, err
	}

	// One row per unordered pair. A rejected request is reopened in place so
	// either side may ask again.
	var req models.FriendRequest
	existing, err := s.requests.FindBetween(ctx, senderID, receiverID)
	switch {
	case err == nil && existing.Status == models.FriendRequestRejected:
		req, err = s.requests.Reopen(ctx, existing.ID, senderID, receiverID)
	case err == nil:
		return models.FriendRequest{}, apperrors.Constraint(duplicateRequestMessage(existing), repositories.ErrFriendRequestExists)
	case errors.Is(err, repositories.ErrFriendRequestNotFound):
		req, err = s.requests.CreateRequest(ctx, senderID, receiverID)
	default:
		return models.FriendRequest{}, apperrors.Internal(err)
	}
	switch {
	case errors.Is(err, repositories.ErrFriendRequestExists), errors.Is(err, repositories.ErrFriendRequestNotFound):
		// lost a race with the other side of the pair
		return models.FriendRequest{}, apperrors.Constraint("friend request already exists", repositories.ErrFriendRequestExists)
	case errors.Is(err, repositories.ErrUserNotFound):
		return models.FriendRequest{}, apperrors.NotFound("user")
	case err != nil:
		return models.FriendRequest{}, apperrors.Internal(err)
	}

	s.notifier.Notify(ctx, receiverID, fmt.Sprintf("%s sent you a friend request", sender.Name))
	publish(ctx, s.events, s.log, RoutingFriendRequest, "friend_request_sent", req)
	return req, nil
}

// Accept moves a PENDING request addressed to actorID to ACCEPTED.
func (s *FriendService) Accept(ctx context.Context, requestID, actorID int) (models.FriendRequest, error) {
	return s.respond(ctx, requestID, actorID, models.FriendRequestAccepted, "%s accepted your friend request")
}

// Reject moves a PENDING request addressed to actorID to REJECTED.
func (s *FriendService) Reject(ctx context.Context, requestID, actorID int) (models.FriendRequest, error) {
	return s.respond(ctx, requestID, actorID, models.FriendRequestRejected, "%s declined your friend request")
}

func (s *FriendService) respond(ctx context.Context, requestID, actorID int, to models.FriendRequestStatus, notice string) (models.FriendRequest, error) {
	req, err := s.get(ctx, requestID)
	if err != nil {
		return models.FriendRequest{}, err
	}
	if req.ReceiverID != actorID {
		return models.FriendRequest{}, apperrors.Forbidden("only the recipient can respond to a friend request")
	}
	if req.Status != models.FriendRequestPending {
		return models.FriendRequest{}, apperrors.Validation("friend request is no longer pending")
	}

	updated, err := s.requests.Transition(ctx, requestID, models.FriendRequestPending, to)
	if errors.Is(err, repositories.ErrFriendRequestNotFound) {
		// answered or withdrawn concurrently
		return models.FriendRequest{}, apperrors.Validation("friend request is no longer pending")
	}
	if err != nil {
		return models.FriendRequest{}, apperrors.Internal(err)
	}

	s.notifier.Notify(ctx, updated.SenderID, fmt.Sprintf(notice, s.displayName(ctx, actorID)))
	publish(ctx, s.events, s.log, RoutingFriendRequest, "friend_request_"+string(to), updated)
	return updated, nil
}

// Delete removes a request. Either party may delete it.
func (s *FriendService) Delete(ctx context.Context, requestID, actorID int) error {
	req, err := s.get(ctx, requestID)
	if err != nil {
		return err
	}
	if !req.Involves(actorID) {
		return apperrors.Forbidden("not a party to this friend request")
	}

	err = s.requests.DeleteRequest(ctx, requestID)
	if errors.Is(err, repositories.ErrFriendRequestNotFound) {
		return apperrors.NotFound("friend request")
	}
	if err != nil {
		return apperrors.Internal(err)
	}

	s.notifier.Notify(ctx, req.Counterpart(actorID), fmt.Sprintf("%s removed a friend request", s.displayName(ctx, actorID)))
	publish(ctx, s.events, s.log, RoutingFriendRequest, "friend_request_deleted", req)
	return nil
}

// List returns incoming and outgoing requests for userID.
func (s *FriendService) List(ctx context.Context, userID int) ([]models.FriendRequest, error) {
	list, err := s.requests.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return list, nil
}

func (s *FriendService) get(ctx context.Context, requestID int) (models.FriendRequest, error) {
	if requestID <= 0 {
		return models.FriendRequest{}, apperrors.Validation("friend request id is required")
	}
	req, err := s.requests.GetRequest(ctx, requestID)
	if errors.Is(err, repositories.ErrFriendRequestNotFound) {
		return models.FriendRequest{}, apperrors.NotFound("friend request")
	}
	if err != nil {
		return models.FriendRequest{}, apperrors.Internal(err)
	}
	return req, nil
}

func (s *FriendService) displayName(ctx context.Context, userID int) string {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil || user.Name == "" {
		return "Someone"
	}
	return user.Name
}

func (s *FriendService) userErr(err error) error {
	if errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.NotFound("user")
	}
	return apperrors.Internal(err)
}

func duplicateRequestMessage(existing models.FriendRequest) string {
	if existing.Status == models.FriendRequestAccepted {
		return "you are already connected"
	}
	return "friend request already exists"
}
