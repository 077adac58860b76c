package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/devmatch/internal/api"
)

func printRequests(w io.Writer, list *api.RequestList) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "REQUEST\tSTATUS\tUSER\tNAME\tSKILLS")
	for _, it := range list.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\t%s\n", it.Request.ID, it.Request.Status, it.User.ID,
			it.User.FirstName, it.User.LastName, strings.Join(it.User.Skills, ","))
	}
	tw.Flush()
	fmt.Fprintf(w, "page %d, %d of %d\n", list.Page, len(list.Items), list.Total)
}

func printUsers(w io.Writer, list *api.UserList) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USER\tNAME\tGENDER\tSKILLS")
	for _, u := range list.Items {
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%s\n", u.ID, u.FirstName, u.LastName, u.Gender, strings.Join(u.Skills, ","))
	}
	tw.Flush()
	fmt.Fprintf(w, "page %d, %d of %d\n", list.Page, len(list.Items), list.Total)
}

func printProfile(w io.Writer, u *api.User) {
	fmt.Fprintf(w, "%s %s (%s)\n", u.FirstName, u.LastName, u.ID)
	fmt.Fprintf(w, "  gender:  %s\n", u.Gender)
	fmt.Fprintf(w, "  about:   %s\n", u.About)
	fmt.Fprintf(w, "  skills:  %s\n", strings.Join(u.Skills, ", "))
	fmt.Fprintf(w, "  picture: %s\n", u.ProfilePic)
}
