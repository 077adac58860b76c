package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/devmatch/internal/api"
)

// Profile: profile [userID]
func (a *App) Profile(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	var userID string
	if len(args) > 0 {
		userID = args[0]
	}

	ctx, cancel := a.call(ctx)
	defer cancel()

	u, err := a.client.Profile(ctx, userID)
	if err != nil {
		return a.fail(err)
	}
	printProfile(a.out, u)
	return nil
}

// Edit prompts for each editable field; empty answers keep the value.
func (a *App) Edit(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	var (
		req api.UpdateProfileRequest
		err error
	)
	if req.FirstName, err = GetOptionalText(a.reader, "-First name", a.out); err != nil {
		return a.fail(err)
	}
	if req.LastName, err = GetOptionalText(a.reader, "-Last name", a.out); err != nil {
		return a.fail(err)
	}
	if req.About, err = GetOptionalText(a.reader, "-About", a.out); err != nil {
		return a.fail(err)
	}
	skills, err := GetOptionalText(a.reader, "-Skills, comma separated", a.out)
	if err != nil {
		return a.fail(err)
	}
	if skills != nil {
		list := splitList(*skills)
		req.Skills = &list
	}

	ctx, cancel := a.call(ctx)
	defer cancel()

	u, err := a.client.UpdateProfile(ctx, &req)
	if err != nil {
		return a.fail(err)
	}
	printProfile(a.out, u)
	return nil
}

// Picture: picture <file>
func (a *App) Picture(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if len(args) != 1 {
		return a.fail(errors.New("usage: picture <file>"))
	}

	data, err := readFile(args[0])
	if err != nil {
		return a.fail(err)
	}

	ctx, cancel := a.call(ctx)
	defer cancel()

	_, url, err := a.client.PictureUploadURL(ctx)
	if err != nil {
		return a.fail(err)
	}
	if err := upload(ctx, url, data); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Picture uploaded")
	return nil
}

// Delete removes the logged-in account after the user types "yes".
func (a *App) Delete(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	answer, err := GetSimpleText(a.reader, "-Delete your account and all its requests? Type yes to confirm", a.out)
	if err != nil {
		return a.fail(err)
	}
	if answer != "yes" {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	ctx, cancel := a.call(ctx)
	defer cancel()

	if err := a.client.DeleteAccount(ctx); err != nil {
		return a.fail(err)
	}
	a.userName = ""
	fmt.Fprintln(a.out, "Account deleted")
	return nil
}
