package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/hitoshi/smarttime/internal/model"
	"github.com/hitoshi/smarttime/internal/token"
)

func loginCmd(rt *runtime) *cobra.Command {
	var (
		username string
		password string
		remember bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the access token",
		Long: "Log in with a username or email address.\n" +
			"With --remember the token is written to the config directory; otherwise an\n" +
			"export line for " + token.EnvStore{}.VarName(token.Key) + " is printed for the current shell.\n" +
			"The password is read from the first line of stdin when --password is omitted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return errors.New("--username is required")
			}
			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			ctx, cancel := rt.context(cmd)
			defer cancel()

			resp, err := rt.client.Auth.Login(ctx, model.Credentials{Login: username, Password: password})
			if err != nil {
				return err
			}
			if err := rt.tokens.Save(ctx, resp.AccessToken, remember); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := cmd.OutOrStdout()
			if remember {
				fmt.Fprintf(out, "logged in as %s (token saved to %s)\n", username, rt.files.Dir())
				return nil
			}
			// 環境変数は親シェルに伝わらないため、評価できる形で出力する
			fmt.Fprintf(out, "export %s=%s\n", token.EnvStore{}.VarName(token.Key), resp.AccessToken)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username or email address")
	cmd.Flags().StringVar(&password, "password", "", "password (read from stdin when omitted)")
	cmd.Flags().BoolVar(&remember, "remember", false, "keep the token across shells")
	return cmd
}

func logoutCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored token from both scopes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := rt.context(cmd)
			defer cancel()

			envVar := token.EnvStore{}.VarName(token.Key)
			hadSession := sessionToken(ctx, rt) != ""

			if err := rt.tokens.Clear(ctx); err != nil {
				return fmt.Errorf("failed to clear token: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "logged out")
			if hadSession {
				fmt.Fprintf(out, "unset %s\n", envVar)
			}
			return nil
		},
	}
}

func registerCmd(rt *runtime) *cobra.Command {
	var req model.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Email == "" || req.Password == "" {
				return errors.New("--email and --password are required")
			}

			ctx, cancel := rt.context(cmd)
			defer cancel()

			resp, err := rt.client.Auth.Register(ctx, req)
			if err != nil {
				return err
			}
			msg := resp.Message
			if msg == "" {
				msg = "registered"
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.FullName, "full-name", "", "display name")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	return cmd
}

func profileCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := rt.context(cmd)
			defer cancel()

			p, err := rt.client.Auth.GetProfile(ctx)
			if err != nil {
				return err
			}

			w := newTable(cmd.OutOrStdout())
			fmt.Fprintf(w, "ID\t%d\n", p.ID)
			fmt.Fprintf(w, "USERNAME\t%s\n", p.Username)
			fmt.Fprintf(w, "NAME\t%s\n", p.FullName)
			fmt.Fprintf(w, "EMAIL\t%s\n", p.Email)
			return w.Flush()
		},
	}
}

// statusCmd は保存済みトークンの所在と、JWTであればその有効期限を表示する。
// 署名は検証しない。
func statusCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the current token comes from and when it expires",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			ctx, cancel := rt.context(cmd)
			defer cancel()

			tok := rt.tokens.Token(ctx)
			if tok == "" {
				fmt.Fprintln(out, "not logged in")
				return nil
			}

			scope := "session (" + token.EnvStore{}.VarName(token.Key) + ")"
			if v, _ := rt.tokens.Persistent.Get(ctx, token.Key); v == tok {
				scope = "persistent (" + rt.files.Dir() + ")"
			}

			w := newTable(out)
			fmt.Fprintf(w, "SCOPE\t%s\n", scope)

			claims := jwt.MapClaims{}
			if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
				fmt.Fprintf(w, "FORMAT\topaque\n")
				return w.Flush()
			}
			if sub, err := claims.GetSubject(); err == nil && sub != "" {
				fmt.Fprintf(w, "SUBJECT\t%s\n", sub)
			}
			if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
				state := "valid"
				if exp.Before(time.Now()) {
					state = "expired"
				}
				fmt.Fprintf(w, "EXPIRES\t%s (%s)\n", exp.Local().Format(displayTimeFormat), state)
			}
			return w.Flush()
		},
	}
}

func sessionToken(ctx context.Context, rt *runtime) string {
	if rt.tokens.Session == nil {
		return ""
	}
	v, _ := rt.tokens.Session.Get(ctx, token.Key)
	return v
}
