package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Checker-Finance/repurpose-client/internal/credential"
	"github.com/Checker-Finance/repurpose-client/internal/repurpose"
	"github.com/Checker-Finance/repurpose-client/internal/ui/tui"
	"github.com/Checker-Finance/repurpose-client/internal/ui/web"
	"github.com/Checker-Finance/repurpose-client/pkg/utils"
)

func newRootCmd(a *app) *cobra.Command {
	cfg := a.cfg
	root := &cobra.Command{
		Use:           "repurposectl",
		Short:         "Log in to the repurpose service and turn text into social posts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Repurpose service base URL")
	pf.StringVar(&cfg.CredentialStore, "store", cfg.CredentialStore, "Credential store: file, sqlite, redis or memory")
	pf.StringVar(&cfg.CredentialPath, "credential-path", cfg.CredentialPath, "Credential file or sqlite database path")
	pf.StringVar(&cfg.TokenKey, "token-key", cfg.TokenKey, "Slot name the token is stored under")
	pf.StringSliceVar(&cfg.Targets, "targets", cfg.Targets, "Target formats sent with repurpose requests")
	pf.IntVar(&cfg.Variations, "variations", cfg.Variations, "Variations per target (0 leaves it to the service)")
	pf.BoolVar(&cfg.Strict, "strict", cfg.Strict, "Notify the error detail instead of rendering non-2xx repurpose replies")
	pf.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "HTTP timeout (0 for none)")

	root.AddCommand(
		newLoginCmd(a),
		newSignupCmd(a),
		newRepurposeCmd(a),
		newUpgradeCmd(a),
		newHealthCmd(a),
		newWhoamiCmd(a),
		newTUICmd(a),
		newWebCmd(a),
	)
	return root
}

// credentialFlags registers the email/password flags shared by login and signup.
type credentialFlags struct {
	email         string
	password      string
	passwordStdin bool
}

func (f *credentialFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "Account password")
	cmd.Flags().BoolVar(&f.passwordStdin, "password-stdin", false, "Read the password from stdin")
}

func (f *credentialFlags) resolve(stdin io.Reader) (string, string, error) {
	if !f.passwordStdin {
		return f.email, f.password, nil
	}
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", "", fmt.Errorf("read password: %w", err)
	}
	return f.email, strings.TrimRight(line, "\r\n"), nil
}

func newLoginCmd(a *app) *cobra.Command {
	var creds credentialFlags
	var fromSecret bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if fromSecret {
				resolver, err := a.loginResolver(ctx)
				if err != nil {
					return err
				}
				l, err := resolver.Resolve(ctx, a.cfg.CredentialsSecret)
				if err != nil {
					return err
				}
				tok, err := a.svc.Authenticate(ctx, l.Email, l.Password)
				if err != nil {
					return err
				}
				if tok == "" {
					resolver.Forget(a.cfg.CredentialsSecret)
					return errNoResult
				}
				return nil
			}

			email, password, err := creds.resolve(a.stdin)
			if err != nil {
				return err
			}
			tok, err := a.svc.Authenticate(ctx, email, password)
			if err != nil {
				return err
			}
			if tok == "" {
				return errNoResult
			}
			return nil
		},
	}
	creds.register(cmd)
	cmd.Flags().BoolVar(&fromSecret, "from-secret", false, "Read email and password from the CREDENTIALS_SECRET secret")
	cmd.Flags().StringVar(&a.cfg.CredentialsSecret, "secret", a.cfg.CredentialsSecret, "Secret name used with --from-secret")
	return cmd
}

func newSignupCmd(a *app) *cobra.Command {
	var creds credentialFlags
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, password, err := creds.resolve(a.stdin)
			if err != nil {
				return err
			}
			ok, err := a.svc.Signup(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if !ok {
				return errNoResult
			}
			return nil
		},
	}
	creds.register(cmd)
	return cmd
}

func newRepurposeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repurpose [TEXT...]",
		Short: "Repurpose text into social posts (reads stdin when no text is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				b, err := io.ReadAll(a.stdin)
				if err != nil {
					return fmt.Errorf("read text: %w", err)
				}
				text = strings.TrimRight(string(b), "\r\n")
			}

			res, err := a.svc.Repurpose(cmd.Context(), text)
			if err != nil {
				return err
			}
			if !repurpose.IsSuccess(res) {
				return errNoResult
			}
			return nil
		},
	}
}

func newUpgradeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := a.svc.Upgrade(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				return errNoResult
			}
			return nil
		},
	}
}

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show the service health document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.svc.Health(cmd.Context())
			if err != nil {
				return err
			}
			if !repurpose.IsSuccess(res) {
				return errNoResult
			}
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show what the stored token says about its holder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := a.session.Token(cmd.Context())
			if err != nil {
				return err
			}
			if tok == "" {
				a.ui.Notify(repurpose.MsgLoginFirst)
				return errNoResult
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "token:   %s\n", utils.MaskToken(tok))
			info, err := credential.Inspect(tok)
			if err != nil {
				sb.WriteString("format:  opaque")
				a.ui.Show(sb.String())
				return nil
			}
			fmt.Fprintf(&sb, "subject: %s\n", info.Subject)
			if !info.IssuedAt.IsZero() {
				fmt.Fprintf(&sb, "issued:  %s\n", info.IssuedAt.UTC().Format(time.RFC3339))
			}
			switch {
			case info.ExpiresAt.IsZero():
				sb.WriteString("expires: never")
			case info.Expired(time.Now()):
				fmt.Fprintf(&sb, "expires: %s (expired)", info.ExpiresAt.UTC().Format(time.RFC3339))
			default:
				fmt.Fprintf(&sb, "expires: %s", info.ExpiresAt.UTC().Format(time.RFC3339))
			}
			a.ui.Show(sb.String())
			return nil
		},
	}
}

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(cmd.Context(), a.svc)
		},
	}
}

func newWebCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the form on a local web page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form := web.NewApp(web.NewHandler(a.logger, a.svc))
			return web.Serve(cmd.Context(), a.logger, form, a.cfg.WebPort)
		},
	}
	cmd.Flags().IntVar(&a.cfg.WebPort, "port", a.cfg.WebPort, "Local port for the web form")
	return cmd
}
