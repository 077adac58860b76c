package grpc

import (
	"context"

	"github.com/dmitrijs2005/devmatch/internal/api"
	"github.com/dmitrijs2005/devmatch/internal/server/models"
	"github.com/dmitrijs2005/devmatch/internal/server/pagination"
	"github.com/dmitrijs2005/devmatch/internal/server/services"
)

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.RegisterResponse, error) {
	u, err := s.identity.Register(ctx, services.RegisterInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Password:   req.Password,
		Gender:     req.Gender,
		About:      req.About,
		Skills:     req.Skills,
		ProfilePic: req.ProfilePic,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.RegisterResponse{User: userToAPI(u.Mini())}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	token, u, err := s.identity.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.LoginResponse{AccessToken: token, User: userToAPI(u.Mini())}, nil
}

func (s *GRPCServer) Connect(ctx context.Context, req *api.ConnectRequest) (*api.ConnectionResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	r, err := s.connections.Connect(ctx, userID, req.ToUserID, models.ConnectionStatus(req.Status))
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ConnectionResponse{Request: requestToAPI(r)}, nil
}

func (s *GRPCServer) Review(ctx context.Context, req *api.ReviewRequest) (*api.ConnectionResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	r, err := s.connections.Review(ctx, req.RequestID, userID, models.ConnectionStatus(req.Status))
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ConnectionResponse{Request: requestToAPI(r)}, nil
}

func (s *GRPCServer) ListReceived(ctx context.Context, req *api.ListReceivedRequest) (*api.RequestList, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	page, err := pagination.Normalize(req.Page, req.Limit)
	if err != nil {
		return nil, toStatus(err)
	}
	p, err := s.connections.ListReceived(ctx, userID, models.ConnectionStatus(req.Status), page)
	if err != nil {
		return nil, toStatus(err)
	}
	return requestPageToAPI(p), nil
}

func (s *GRPCServer) ListSent(ctx context.Context, req *api.ListSentRequest) (*api.RequestList, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	page, err := pagination.Normalize(req.Page, req.Limit)
	if err != nil {
		return nil, toStatus(err)
	}
	p, err := s.connections.ListSent(ctx, userID, models.ConnectionStatus(req.Status), page)
	if err != nil {
		return nil, toStatus(err)
	}
	return requestPageToAPI(p), nil
}

func (s *GRPCServer) ListConnections(ctx context.Context, req *api.ListConnectionsRequest) (*api.RequestList, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	page, err := pagination.Normalize(req.Page, req.Limit)
	if err != nil {
		return nil, toStatus(err)
	}
	p, err := s.connections.ListConnections(ctx, userID, page)
	if err != nil {
		return nil, toStatus(err)
	}
	return requestPageToAPI(p), nil
}

func (s *GRPCServer) Feed(ctx context.Context, req *api.FeedRequest) (*api.UserList, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	page, err := pagination.Normalize(req.Page, req.Limit)
	if err != nil {
		return nil, toStatus(err)
	}
	p, err := s.feed.Feed(ctx, userID, services.FeedFilter{Gender: req.Gender, Skill: req.Skill}, page)
	if err != nil {
		return nil, toStatus(err)
	}
	return userPageToAPI(p), nil
}

func (s *GRPCServer) Status(ctx context.Context, req *api.StatusRequest) (*api.StatusResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	rel, err := s.connections.Status(ctx, userID, req.UserID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.StatusResponse{State: string(rel.State), RequestID: rel.RequestID}, nil
}

func (s *GRPCServer) GetProfile(ctx context.Context, req *api.GetProfileRequest) (*api.ProfileResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	target := req.UserID
	if target == "" {
		target = userID
	}
	m, err := s.profile.View(ctx, target)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ProfileResponse{User: userToAPI(*m)}, nil
}

func (s *GRPCServer) UpdateProfile(ctx context.Context, req *api.UpdateProfileRequest) (*api.ProfileResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	target := req.UserID
	if target == "" {
		target = userID
	}
	m, err := s.profile.Update(ctx, userID, target, services.ProfileInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Password:   req.Password,
		ProfilePic: req.ProfilePic,
		About:      req.About,
		Skills:     req.Skills,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ProfileResponse{User: userToAPI(*m)}, nil
}

func (s *GRPCServer) PictureUploadURL(ctx context.Context, req *api.PictureUploadRequest) (*api.PictureUploadResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	key, url, err := s.profile.PictureUploadURL(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.PictureUploadResponse{Key: key, URL: url}, nil
}

func (s *GRPCServer) DeleteAccount(ctx context.Context, req *api.DeleteAccountRequest) (*api.DeleteAccountResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	target := req.UserID
	if target == "" {
		target = userID
	}
	if err := s.profile.Delete(ctx, userID, target); err != nil {
		return nil, toStatus(err)
	}
	return &api.DeleteAccountResponse{}, nil
}
