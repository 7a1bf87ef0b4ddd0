package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"portfolio/internal/client"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// app is the state shared by every subcommand of one invocation.
type app struct {
	apiURL      string
	sessionPath string
	debug       bool

	session *client.Session
	client  *client.Client
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".portfolioctl-session.json"
	}
	return filepath.Join(dir, "portfolioctl", "session.json")
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	a := &app{}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stdout)

	err := root.ExecuteContext(ctx)

	// Login, logout and rejected tokens all change the session.
	if a.session != nil {
		if saveErr := a.session.Save(a.sessionPath); saveErr != nil {
			return errors.Join(err, saveErr)
		}
	}
	if errors.Is(err, client.ErrSessionExpired) {
		return fmt.Errorf("%w: run `portfolioctl login`", err)
	}
	return err
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "portfolioctl",
		Short: "Terminal client for the portfolio API",
		Long: `portfolioctl talks to a running portfolio API. The session token is kept
in a file between runs and removed when the API rejects it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New("no command given")
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.apiURL, "api", envOr("PORTFOLIO_API_URL", "http://localhost:3000"), "API base URL")
	flags.StringVar(&a.sessionPath, "session", envOr("PORTFOLIO_SESSION", defaultSessionPath()), "session file")
	flags.BoolVar(&a.debug, "debug", false, "log requests to stderr")

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.listCmd(),
		a.getCmd(),
		a.renderCmd(),
		a.overviewCmd(),
	)
	return root
}

func (a *app) open() error {
	level := slog.LevelWarn
	if a.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	session, err := client.LoadSession(a.sessionPath)
	if err != nil {
		return err
	}
	a.session = session
	a.client = client.New(a.apiURL, session, logger)
	return nil
}

func (a *app) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login [email]",
		Short: "Sign in and save the session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			email := ""
			if len(args) > 0 {
				email = args[0]
			} else {
				fmt.Fprint(out, "Email: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return err
				}
				email = strings.TrimSpace(line)
			}

			fmt.Fprint(out, "Password: ")
			pw, err := readPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(out)
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}

			res, err := a.client.Login(cmd.Context(), email, string(pw))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Signed in as %s.\n", res.User.Email)
			return nil
		},
	}
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Logout(cmd.Context()); err != nil && !errors.Is(err, client.ErrSessionExpired) {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.client.Profile(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", user.FullName, user.Email)
			return nil
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List published case studies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			studies, err := a.client.ListCaseStudies(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(studies) == 0 {
				fmt.Fprintln(out, "No case studies found.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tTAGS")
			for _, cs := range studies {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", cs.ID, cs.Name, cs.Status, strings.Join(cs.Tags, ", "))
			}
			return tw.Flush()
		},
	}
}

func (a *app) getCmd() *cobra.Command {
	var withContent bool
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one case study, optionally with its blocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := a.client.GetCaseStudy(cmd.Context(), args[0], withContent)
			if err != nil {
				return err
			}
			if withContent {
				return printJSON(cmd.OutOrStdout(), cs)
			}
			return printJSON(cmd.OutOrStdout(), cs.CaseStudy)
		},
	}
	cmd.Flags().BoolVarP(&withContent, "content", "c", false, "include page content")
	return cmd
}

func (a *app) renderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render <id>",
		Short: "Print a case study's content as HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			html, err := a.client.RenderCaseStudy(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), html)
			return nil
		},
	}
}

func (a *app) overviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Summarise both databases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overview, err := a.client.Overview(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), overview)
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
