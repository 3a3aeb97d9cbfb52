package cmdflags

import (
	"github.com/urfave/cli/v2"

	"github.com/andrebq/staccoa/session"
)

func UserDB(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "db",
		Usage:       "Path to the sqlite user database",
		Destination: out,
		Value:       *out,
	}
}

func UsersFile(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "users-file",
		Usage:       "Path to the flat-file user store (one JSON record per line)",
		Destination: out,
		Value:       *out,
	}
}

func SecretEnvVar(out *string) cli.Flag {
	if len(*out) == 0 {
		*out = session.SecretEnvVar
	}
	return &cli.StringFlag{
		Name:        "auth-secret-envvar-name",
		Usage:       "Name of the environment variable that holds the session signing secret. The secret itself should not be passed as an argument",
		Value:       *out,
		Destination: out,
	}
}
