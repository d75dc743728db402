package cli

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/matzehuels/labelsheet/pkg/cache"
	"github.com/matzehuels/labelsheet/pkg/config"
	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/inventory"
	"github.com/matzehuels/labelsheet/pkg/session"
)

// envPassword supplies the login password non-interactively.
const envPassword = "LABELSHEET_PASSWORD"

const loginTimeout = 30 * time.Second

// loginCommand creates the login command.
func (c *CLI) loginCommand() *cobra.Command {
	var (
		baseURL       string
		username      string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the inventory API",
		Long: `Log in to the inventory API and save the session token.

The password is read from $LABELSHEET_PASSWORD, from standard input with
--password-stdin, or prompted for. Sessions are stored in
~/.config/labelsheet/sessions/ and expire after 24 hours.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if baseURL == "" {
				baseURL = cfg.Inventory.URL
			}

			in := bufio.NewReader(cmd.InOrStdin())
			if username == "" {
				if username, err = prompt(in, "Username: "); err != nil {
					return err
				}
			}
			password := os.Getenv(envPassword)
			switch {
			case passwordStdin:
				password, err = prompt(in, "")
			case password == "":
				password, err = readPassword(cmd.InOrStdin(), in)
			}
			if err != nil {
				return err
			}

			sess, err := c.login(cmd.Context(), baseURL, username, password)
			if err != nil {
				return err
			}
			printSuccess("Logged in as %s", sess.Username())
			if f := sess.Faculty(); f != "" {
				printDetail("Faculty: %s", f)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "", "inventory API base URL (default from config)")
	cmd.Flags().StringVarP(&username, "username", "u", "", "user name")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from standard input")
	return cmd
}

// logoutCommand creates the logout command.
func (c *CLI) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored inventory session",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := session.NewCLIStore("")
			if err != nil {
				return err
			}
			if err := store.DeleteSession(cmd.Context()); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
			printSuccess("Logged out")
			return nil
		},
	}
}

// whoamiCommand creates the whoami command.
func (c *CLI) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in inventory user",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession(cmd.Context())
			if err != nil {
				return err
			}
			printSuccess("Inventory Session")
			printKeyValue("Username", sess.Username())
			if sess.User != nil && sess.User.Role != "" {
				printKeyValue("Role", sess.User.Role)
			}
			if f := sess.Faculty(); f != "" {
				printKeyValue("Faculty", f)
			}
			printKeyValue("Server", StyleLink.Render(sess.BaseURL))
			printKeyValue("Logged in", sess.CreatedAt.Format("Jan 2, 2006 15:04"))
			printKeyValue("Expires", sess.ExpiresAt.Format("Jan 2, 2006 15:04"))
			return nil
		},
	}
}

// =============================================================================
// Session Management
// =============================================================================

func (c *CLI) login(ctx context.Context, baseURL, username, password string) (*session.Session, error) {
	client, err := inventory.NewClient(baseURL, nil, nil)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()

	c.Logger.Debug("logging in", "url", client.BaseURL(), "user", username)
	resp, _, err := client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	store, err := session.NewCLIStore("")
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	sess := session.New(client.BaseURL(), resp.Token, &resp.User, session.DefaultTTL)
	if err := store.SaveSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	c.Logger.Debug("session saved", "path", store.Path())
	return sess, nil
}

// loadSession loads the saved login.
func loadSession(ctx context.Context) (*session.Session, error) {
	store, err := session.NewCLIStore("")
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	sess, err := store.GetSession(ctx)
	if stderrors.Is(err, session.ErrNotFound) {
		return nil, errors.New(errors.ErrCodeUnauthorized, "not logged in (run 'labelsheet login' first)")
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// inventoryClient returns a client for the saved login. Responses are
// cached in store under keys scoped to the logged-in user.
func (c *CLI) inventoryClient(ctx context.Context, cfg *config.Config, store cache.Cache) (*inventory.Client, *session.Session, error) {
	sess, err := loadSession(ctx)
	if err != nil {
		return nil, nil, err
	}
	baseURL := sess.BaseURL
	if baseURL == "" {
		baseURL = cfg.Inventory.URL
	}
	keyer := cache.NewScopedKeyer(nil, "user:"+sess.Username()+":")
	client, err := inventory.NewClient(baseURL, store, keyer)
	if err != nil {
		return nil, nil, err
	}
	return client.WithToken(sess.Token), sess, nil
}

// readPassword prompts for the password. A terminal reads it without
// echo; any other input is read as one line from r.
func readPassword(in io.Reader, r *bufio.Reader) (string, error) {
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(f.Fd()) {
		return prompt(r, "Password: ")
	}
	fmt.Fprint(os.Stderr, "Password: ")
	b, err := term.ReadPassword(f.Fd())
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read password")
	}
	return string(b), nil
}

// prompt prints label to stderr and reads one line.
func prompt(r *bufio.Reader, label string) (string, error) {
	if label != "" {
		fmt.Fprint(os.Stderr, label)
	}
	line, err := r.ReadString('\n')
	if err != nil && !(stderrors.Is(err, io.EOF) && line != "") {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", strings.TrimSuffix(strings.ToLower(label), ": "))
	}
	return strings.TrimRight(line, "\r\n"), nil
}
