package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typermonkey/internal/account"
	"github.com/verte-zerg/typermonkey/internal/config"
	"github.com/verte-zerg/typermonkey/internal/model"
)

var accountEmail string

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the local account",
	}
	signup := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE:  runSignUpCmd,
	}
	signin := &cobra.Command{
		Use:   "signin",
		Short: "Sign in",
		Args:  cobra.NoArgs,
		RunE:  runSignInCmd,
	}
	for _, c := range []*cobra.Command{signup, signin} {
		c.Flags().StringVar(&accountEmail, "email", "", "account email")
		_ = c.MarkFlagRequired("email")
	}
	signout := &cobra.Command{
		Use:   "signout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE:  runSignOutCmd,
	}
	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE:  runWhoAmICmd,
	}
	cmd.AddCommand(signup, signin, signout, whoami)
	return cmd
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit the signed-in profile",
		Args:  cobra.NoArgs,
		RunE:  runProfileShowCmd,
	}
	nickname := &cobra.Command{
		Use:   "nickname NAME",
		Short: "Set the nickname shown in the header",
		Args:  cobra.ExactArgs(1),
		RunE:  runNicknameCmd,
	}
	avatar := &cobra.Command{
		Use:   "avatar FILE",
		Short: "Upload an avatar image",
		Args:  cobra.ExactArgs(1),
		RunE:  runAvatarCmd,
	}
	cmd.AddCommand(nickname, avatar)
	return cmd
}

// withAccount opens the store and hands fn the identity and profile services.
func withAccount(cmd *cobra.Command, fn func(ctx context.Context, id *account.Identity, p *account.Profiles) error) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	id := account.NewIdentity(st, config.DefaultSessionPath())
	profiles := account.NewProfiles(st, config.DefaultAvatarDir())
	return fn(ctx, id, profiles)
}

func runSignUpCmd(cmd *cobra.Command, _ []string) error {
	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		confirm, err := readPassword("Repeat password: ")
		if err != nil {
			return err
		}
		if confirm != password {
			return fmt.Errorf("passwords do not match")
		}
	}
	return withAccount(cmd, func(ctx context.Context, id *account.Identity, _ *account.Profiles) error {
		user, err := id.SignUp(ctx, accountEmail, password)
		if err != nil {
			return err
		}
		cliLog.Info("signed up", "email", user.Email)
		return nil
	})
}

func runSignInCmd(cmd *cobra.Command, _ []string) error {
	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}
	return withAccount(cmd, func(ctx context.Context, id *account.Identity, _ *account.Profiles) error {
		user, err := id.SignIn(ctx, accountEmail, password)
		if err != nil {
			return err
		}
		cliLog.Info("signed in", "email", user.Email)
		return nil
	})
}

func runSignOutCmd(_ *cobra.Command, _ []string) error {
	// Signing out only touches the session file.
	if err := account.NewIdentity(nil, config.DefaultSessionPath()).SignOut(); err != nil {
		return err
	}
	cliLog.Info("signed out")
	return nil
}

func runWhoAmICmd(cmd *cobra.Command, _ []string) error {
	return withAccount(cmd, func(ctx context.Context, id *account.Identity, _ *account.Profiles) error {
		user, err := id.Current(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), user.Email)
		return err
	})
}

func runProfileShowCmd(cmd *cobra.Command, _ []string) error {
	return withAccount(cmd, func(ctx context.Context, id *account.Identity, p *account.Profiles) error {
		user, err := id.Current(ctx)
		if err != nil {
			return err
		}
		profile, err := p.Get(ctx, user.ID)
		if err != nil {
			return err
		}
		return printProfile(cmd, user, profile)
	})
}

func runNicknameCmd(cmd *cobra.Command, args []string) error {
	return withAccount(cmd, func(ctx context.Context, id *account.Identity, p *account.Profiles) error {
		user, err := id.Current(ctx)
		if err != nil {
			return err
		}
		profile, err := p.UpdateNickname(ctx, user.ID, args[0])
		if err != nil {
			return err
		}
		return printProfile(cmd, user, profile)
	})
}

func runAvatarCmd(cmd *cobra.Command, args []string) error {
	return withAccount(cmd, func(ctx context.Context, id *account.Identity, p *account.Profiles) error {
		user, err := id.Current(ctx)
		if err != nil {
			return err
		}
		profile, err := p.UpdateAvatar(ctx, user.ID, args[0])
		if err != nil {
			return err
		}
		return printProfile(cmd, user, profile)
	})
}

func printProfile(cmd *cobra.Command, user model.User, profile model.Profile) error {
	lines := []string{
		"email:    " + user.Email,
		"nickname: " + orNone(profile.Nickname),
		"avatar:   " + orNone(profile.AvatarURL),
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
	return err
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// readPassword prompts on stderr. Input is hidden on a terminal and read as a
// plain line otherwise.
func readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	fmt.Fprint(os.Stderr, prompt)
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
