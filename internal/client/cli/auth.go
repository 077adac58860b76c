package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/devmatch/internal/api"
)

var errNotLoggedIn = errors.New("not logged in, use 'login' first")

func (a *App) Register(ctx context.Context) error {
	var (
		req api.RegisterRequest
		err error
	)
	if req.FirstName, err = GetSimpleText(a.reader, "-Enter first name", a.out); err != nil {
		return a.fail(err)
	}
	if req.LastName, err = GetSimpleText(a.reader, "-Enter last name", a.out); err != nil {
		return a.fail(err)
	}
	if req.Email, err = GetSimpleText(a.reader, "-Enter email", a.out); err != nil {
		return a.fail(err)
	}
	if req.Gender, err = GetSimpleText(a.reader, "-Enter gender (male, female, other)", a.out); err != nil {
		return a.fail(err)
	}
	if req.About, err = GetSimpleText(a.reader, "-Tell about yourself (optional)", a.out); err != nil {
		return a.fail(err)
	}
	skills, err := GetSimpleText(a.reader, "-Enter skills, comma separated (optional)", a.out)
	if err != nil {
		return a.fail(err)
	}
	req.Skills = splitList(skills)
	if req.Password, err = GetPassword(a.out); err != nil {
		return a.fail(err)
	}

	ctx, cancel := a.call(ctx)
	defer cancel()

	u, err := a.client.Register(ctx, &req)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Registered %s %s (id %s)\n", u.FirstName, u.LastName, u.ID)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "-Enter email", a.out)
	if err != nil {
		return a.fail(err)
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return a.fail(err)
	}

	ctx, cancel := a.call(ctx)
	defer cancel()

	u, err := a.client.Login(ctx, email, password)
	if err != nil {
		return a.fail(err)
	}
	a.userName = u.FirstName
	fmt.Fprintf(a.out, "Welcome, %s!\n", u.FirstName)
	return nil
}

func (a *App) Logout(context.Context) error {
	a.client.Logout()
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) requireLogin() error {
	if !a.client.LoggedIn() {
		return a.fail(errNotLoggedIn)
	}
	return nil
}
