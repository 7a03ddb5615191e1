package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cloudnative-denmark/conference-companion/internal/auth/identity"
	"github.com/cloudnative-denmark/conference-companion/internal/auth/repository"
	"github.com/cloudnative-denmark/conference-companion/internal/auth/service"
	"github.com/cloudnative-denmark/conference-companion/internal/auth/session"
	"github.com/cloudnative-denmark/conference-companion/internal/bootstrap"
)

type loginOptions struct {
	email       string
	password    string
	displayName string
	signUp      bool
	googleToken string
	githubToken string
	idToken     string
	showToken   bool
}

func loginCmd(opts *options) *cobra.Command {
	lo := &loginOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print the resolved session",
		Long: "Signs in with email and password, a Google id token, a GitHub access token,\n" +
			"or resumes an existing id token, then prints the user, profile and admin flag.\n" +
			"Requires FIREBASE_API_KEY and Firebase Admin credentials.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.cfg.Firebase.Enabled() {
				return errors.New("login needs FIREBASE_CREDENTIALS_PATH or FIREBASE_PROJECT_ID")
			}
			fb, err := bootstrap.InitializeFirebase(cmd.Context(), opts.cfg.Firebase)
			if err != nil {
				return err
			}
			defer fb.Close()

			provider := identity.NewClient(opts.cfg.Firebase.IdentityURL, opts.cfg.Firebase.APIKey, opts.cfg.Sessionize.Timeout)
			auth := service.NewAuthService(provider, fb.Auth, repository.NewFirestoreProfiles(fb.Firestore))

			return runLogin(cmd.Context(), cmd.ErrOrStderr(), cmd.OutOrStdout(), session.New(auth), lo)
		},
	}

	f := cmd.Flags()
	f.StringVar(&lo.email, "email", "", "Account email")
	f.StringVar(&lo.password, "password", "", "Account password")
	f.StringVar(&lo.displayName, "display-name", "", "Display name for --sign-up")
	f.BoolVar(&lo.signUp, "sign-up", false, "Create the account instead of signing in")
	f.StringVar(&lo.googleToken, "google-token", "", "Google OIDC id token")
	f.StringVar(&lo.githubToken, "github-token", "", "GitHub OAuth access token")
	f.StringVar(&lo.idToken, "id-token", "", "Resume a session from a Firebase id token")
	f.BoolVar(&lo.showToken, "show-token", false, "Print the id token after signing in")
	cmd.MarkFlagsMutuallyExclusive("email", "google-token", "github-token", "id-token")
	return cmd
}

// runLogin drives sess with the chosen method, logs every state change to
// progress and prints the final state to out.
func runLogin(ctx context.Context, progress, out io.Writer, sess *session.Session, lo *loginOptions) error {
	updates, cancel := sess.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for st := range updates {
			fmt.Fprintf(progress, "session: %s loading=%t\n", st.Status, st.Loading)
		}
	}()

	var err error
	switch {
	case lo.email != "" && lo.signUp:
		err = sess.SignUp(ctx, lo.email, lo.password, lo.displayName)
	case lo.email != "":
		err = sess.SignIn(ctx, lo.email, lo.password)
	case lo.googleToken != "":
		err = sess.SignInGoogle(ctx, lo.googleToken)
	case lo.githubToken != "":
		err = sess.SignInGitHub(ctx, lo.githubToken)
	case lo.idToken != "":
		err = sess.Resume(ctx, lo.idToken)
	default:
		err = errors.New("one of --email, --google-token, --github-token or --id-token is required")
	}
	cancel()
	<-done
	if err != nil {
		return err
	}

	printSessionState(out, sess.State(), lo.showToken)
	return nil
}

func printSessionState(w io.Writer, st session.State, showToken bool) {
	fmt.Fprintf(w, "status:   %s\n", st.Status)
	if st.User == nil {
		return
	}
	fmt.Fprintf(w, "uid:      %s\n", st.User.UID)
	fmt.Fprintf(w, "email:    %s\n", st.User.Email)
	if st.Profile != nil {
		fmt.Fprintf(w, "name:     %s\n", st.Profile.DisplayName)
		fmt.Fprintf(w, "role:     %s\n", st.Profile.Role.Label())
	} else {
		fmt.Fprintln(w, "profile:  none")
	}
	fmt.Fprintf(w, "admin:    %t\n", st.IsAdmin)
	if showToken {
		fmt.Fprintf(w, "id token: %s\n", st.User.IDToken)
	}
}
