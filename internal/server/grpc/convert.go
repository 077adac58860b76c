package grpc

import (
	"github.com/dmitrijs2005/devmatch/internal/api"
	"github.com/dmitrijs2005/devmatch/internal/server/models"
)

func userToAPI(u models.UserMini) api.User {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return api.User{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Gender:     u.Gender,
		About:      u.About,
		Skills:     skills,
		ProfilePic: u.ProfilePic,
		CreatedAt:  u.CreatedAt,
	}
}

func requestToAPI(r *models.ConnectionRequest) api.ConnectionRequest {
	return api.ConnectionRequest{
		ID:         r.ID,
		FromUserID: r.FromUserID,
		ToUserID:   r.ToUserID,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func requestPageToAPI(p *models.RequestPage) *api.RequestList {
	out := &api.RequestList{
		Items: make([]api.RequestItem, 0, len(p.Items)),
		Total: p.Total,
		Page:  p.Page,
		Limit: p.Limit,
	}
	for _, it := range p.Items {
		out.Items = append(out.Items, api.RequestItem{Request: requestToAPI(it.Request), User: userToAPI(it.User)})
	}
	return out
}

func userPageToAPI(p *models.UserPage) *api.UserList {
	out := &api.UserList{
		Items: make([]api.User, 0, len(p.Items)),
		Total: p.Total,
		Page:  p.Page,
		Limit: p.Limit,
	}
	for _, u := range p.Items {
		out.Items = append(out.Items, userToAPI(u))
	}
	return out
}
