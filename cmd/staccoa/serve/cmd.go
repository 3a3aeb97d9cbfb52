package serve

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/andrebq/staccoa/internal/cmdflags"
	"github.com/andrebq/staccoa/internal/httpserver"
	"github.com/andrebq/staccoa/internal/logutil"
	"github.com/andrebq/staccoa/session"
	"github.com/andrebq/staccoa/userstore"
	"github.com/andrebq/staccoa/webapi"
)

func Cmd() *cli.Command {
	bindAddr := "localhost:3000"
	storeKind := "sqlite"
	dbPath := "staccoa.db"
	usersFile := "users.jsonl"
	sessionKind := "token"
	staticDir := ""
	secretVar := ""
	production := false
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the staccoa authentication server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "bind",
				Usage:       "Address to bind and expose the API",
				Value:       bindAddr,
				Destination: &bindAddr,
			},
			&cli.StringFlag{
				Name:        "store",
				Usage:       "User store backend (sqlite or file)",
				Value:       storeKind,
				Destination: &storeKind,
			},
			cmdflags.UserDB(&dbPath),
			cmdflags.UsersFile(&usersFile),
			&cli.StringFlag{
				Name:        "sessions",
				Usage:       "Session artifact flavor (token or server)",
				Value:       sessionKind,
				Destination: &sessionKind,
			},
			&cli.StringFlag{
				Name:        "static",
				Usage:       "Directory with the static pages (login.html, home.html, ...), leave empty to serve the API only",
				Value:       staticDir,
				Destination: &staticDir,
			},
			&cli.BoolFlag{
				Name:        "production",
				Usage:       "Production deployment mode: session cookies are marked Secure and the signing secret must be set explicitly",
				Value:       production,
				Destination: &production,
			},
			cmdflags.SecretEnvVar(&secretVar),
		},
		Action: func(ctx *cli.Context) error {
			log := logutil.GetOrDefault(ctx.Context)
			log.Info().Str("store", storeKind).Str("sessions", sessionKind).Msg("Opening user store")
			users, err := openStore(ctx.Context, storeKind, dbPath, usersFile)
			if err != nil {
				return err
			}
			defer users.Close()
			sessions, err := openIssuer(sessionKind, secretVar, production)
			if err != nil {
				return err
			}
			handler := webapi.AsHandler(ctx.Context, users, sessions, staticDir)
			return httpserver.Serve(ctx.Context, bindAddr, handler)
		},
	}
}

func openStore(ctx context.Context, kind, dbPath, usersFile string) (userstore.Store, error) {
	switch kind {
	case "sqlite":
		return userstore.OpenSQLite(ctx, dbPath)
	case "file":
		return userstore.OpenFile(usersFile)
	}
	return nil, fmt.Errorf("unknown store backend %v", kind)
}

func openIssuer(kind, secretVar string, production bool) (session.Issuer, error) {
	switch kind {
	case "token":
		secret, err := session.SecretFromEnv(secretVar, production)
		if err != nil {
			return nil, err
		}
		return session.NewTokenIssuer(secret, production), nil
	case "server":
		return session.NewServerIssuer(session.InMemoryRecords(), production), nil
	}
	return nil, fmt.Errorf("unknown session flavor %v", kind)
}
