package command

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"
)

// SessionCommand returns the session subcommand group.
func SessionCommand() *cli.Command {
	return &cli.Command{
		Name:    "session",
		Aliases: []string{"sess"},
		Usage:   "Inspect or reset the QRZ session",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the cached session (never the key)",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "login",
						Usage: "Log in first if no session is cached",
					},
				},
				Action: sessionShow,
			},
			{
				Name:   "login",
				Usage:  "Discard the cached session and log in again",
				Action: sessionLogin,
			},
			{
				Name:   "clear",
				Usage:  "Delete the cached session token",
				Action: sessionClear,
			},
		},
	}
}

// sessionView is the printable session state.
type sessionView struct {
	Username      string `json:"username"`
	Endpoint      string `json:"endpoint"`
	Authenticated bool   `json:"authenticated"`
	Subscriber    bool   `json:"subscriber"`
	SubExp        string `json:"sub_exp,omitempty"`
	Count         *int   `json:"count,omitempty"`
	Message       string `json:"message,omitempty"`
	ObtainedAt    string `json:"obtained_at,omitempty"`
}

func sessionShow(c *cli.Context) error {
	rt := getRuntime(c)
	qrz, err := rt.Client()
	if err != nil {
		return err
	}
	if c.Bool("login") {
		ctx, cancel := rt.requestContext(c)
		defer cancel()
		if err := qrz.Authenticate(ctx); err != nil {
			return err
		}
	}
	return rt.printSession()
}

func sessionLogin(c *cli.Context) error {
	rt := getRuntime(c)
	qrz, err := rt.Client()
	if err != nil {
		return err
	}
	ctx, cancel := rt.requestContext(c)
	defer cancel()
	if err := qrz.Reauthenticate(ctx); err != nil {
		return err
	}
	return rt.printSession()
}

func sessionClear(c *cli.Context) error {
	rt := getRuntime(c)
	if rt.store == nil {
		return fmt.Errorf("session cache is disabled")
	}
	if rt.cfg.Username == "" {
		return fmt.Errorf("--username is required")
	}
	if err := rt.store.Delete(rt.cfg.Username); err != nil {
		return err
	}
	fmt.Fprintf(rt.out, "cleared cached session of %s\n", rt.cfg.Username)
	return nil
}

func (rt *runtime) printSession() error {
	view := sessionView{
		Username: rt.client.Username(),
		Endpoint: rt.client.Endpoint(),
	}
	if info, ok := rt.client.SessionInfo(); ok {
		view.Authenticated = true
		view.Subscriber = info.Subscriber(time.Now())
		view.SubExp = info.SubExp
		view.Count = info.Count
		view.Message = info.Message
		view.ObtainedAt = info.ObtainedAt.Format(time.RFC3339)
	}

	return rt.emit(view, func(w io.Writer) error {
		count := ""
		if view.Count != nil {
			count = strconv.Itoa(*view.Count)
		}
		return writeFields(w, []field{
			{"Username", view.Username},
			{"Endpoint", view.Endpoint},
			{"Logged in", strconv.FormatBool(view.Authenticated)},
			{"Subscriber", strconv.FormatBool(view.Subscriber)},
			{"Subscription", view.SubExp},
			{"Lookups", count},
			{"Message", view.Message},
			{"Obtained", view.ObtainedAt},
		})
	})
}
