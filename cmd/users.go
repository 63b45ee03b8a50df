package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/harmony/internal/models"
	"github.com/desertthunder/harmony/internal/repositories"
	"github.com/desertthunder/harmony/internal/server"
	"github.com/desertthunder/harmony/internal/shared"
)

type userRow struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
	Created string `json:"created"`
}

func firstArg(cmd *cli.Command, name string) (string, error) {
	if cmd.Args().Len() < 1 {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	return cmd.Args().First(), nil
}

func (r *Runner) lookupUser(store *repositories.Store, email string) (*models.User, error) {
	user, err := store.Users.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("no user with email %s: %w", email, err)
	}
	return user, nil
}

// UsersCreate inserts an account.
func (r *Runner) UsersCreate(ctx context.Context, cmd *cli.Command) error {
	store, closeFn, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeFn()

	user := models.NewUser(0, cmd.String("email"), cmd.String("name"))
	user.SetAdmin(cmd.Bool("admin"))
	if err := store.Users.Create(user); err != nil {
		return err
	}

	r.logger.Info("created user", "id", user.ID(), "email", user.Email(), "admin", user.IsAdmin())
	return r.writePlain("%s\n", user.ID())
}

// UsersList prints every live account.
func (r *Runner) UsersList(ctx context.Context, cmd *cli.Command) error {
	store, closeFn, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeFn()

	users, err := store.Users.List(map[string]any{})
	if err != nil {
		return err
	}

	rows := make([]userRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, userRow{
			ID:      u.ID(),
			Email:   u.Email(),
			Name:    u.Name(),
			IsAdmin: u.IsAdmin(),
			Created: u.CreatedAt().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	if cmd.Bool("json") {
		return r.writeJSON(rows, true)
	}

	r.writePlainHeader(fmt.Sprintf("Users (%d)", len(users)))
	for _, u := range users {
		role := ""
		if u.IsAdmin() {
			role = " [admin]"
		}
		r.writePlain("%-24s %-30s %s%s\n", u.Name(), u.Email(), humanize.Time(u.CreatedAt()), role)
	}
	return nil
}

// UsersPromote grants admin rights to the account with the given email.
func (r *Runner) UsersPromote(ctx context.Context, cmd *cli.Command) error {
	email, err := firstArg(cmd, "email")
	if err != nil {
		return err
	}

	store, closeFn, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeFn()

	user, err := r.lookupUser(store, email)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return r.writePlain("%s is already an admin\n", user.Email())
	}

	user.SetAdmin(true)
	if err := store.Users.Update(user); err != nil {
		return err
	}
	return r.writePlain("promoted %s\n", user.Email())
}

// UsersToken mints a bearer token for the account with the given email.
func (r *Runner) UsersToken(ctx context.Context, cmd *cli.Command) error {
	email, err := firstArg(cmd, "email")
	if err != nil {
		return err
	}

	store, closeFn, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeFn()

	user, err := r.lookupUser(store, email)
	if err != nil {
		return err
	}

	session, err := store.Sessions.Create(user.ID(), cmd.Duration("ttl"))
	if err != nil {
		return err
	}

	if session.ExpiresAt != nil {
		r.logger.Info("minted token", "user", user.Email(), "expires", humanize.Time(*session.ExpiresAt))
	} else {
		r.logger.Info("minted token", "user", user.Email(), "expires", "never")
	}
	return r.writePlain("%s\n", session.Token)
}

// UsersRevoke invalidates a token.
func (r *Runner) UsersRevoke(ctx context.Context, cmd *cli.Command) error {
	token, err := firstArg(cmd, "token")
	if err != nil {
		return err
	}

	store, closeFn, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeFn()

	if err := store.Sessions.Revoke(token); err != nil {
		return err
	}
	return r.writePlain("revoked\n")
}

// UsersStats prints the same counters as the admin dashboard.
func (r *Runner) UsersStats(ctx context.Context, cmd *cli.Command) error {
	store, closeFn, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeFn()

	stats, err := server.CollectStats(store)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}

	r.writePlainHeader("Stats")
	r.writePlain("Users:         %s\n", humanize.Comma(int64(stats.Users)))
	r.writePlain("Active users:  %s\n", humanize.Comma(int64(stats.ActiveUsers)))
	r.writePlain("Playlists:     %s\n", humanize.Comma(int64(stats.Playlists)))
	return r.writePlain("Liked songs:   %s\n", humanize.Comma(int64(stats.TotalLikedSongs)))
}
