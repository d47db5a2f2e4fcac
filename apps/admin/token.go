package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	echoapi "github.com/startupsl/backend/apps/api/echo"
	"github.com/startupsl/backend/core/permission"
)

// tokenCmd mints a token for local development, signed like the identity provider's.
func (cli *commandLine) tokenCmd() *cobra.Command {
	var (
		sub       permission.Subject
		role      string
		ttl       time.Duration
		askSecret bool
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a signed API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if sub.Role, err = permission.ParseRole(role); err != nil {
				return err
			}
			if sub.UserID == "" {
				_ = cmd.Usage()
				return errHelp
			}

			conf := *cli.conf
			if askSecret {
				fmt.Fprint(cli.out, "Enter secret:")
				secret, err := readPasswordFunc(int(os.Stdin.Fd()))
				fmt.Fprintln(cli.out)
				if err != nil {
					return errors.Wrap(err, "reading secret")
				}
				if len(secret) == 0 {
					_ = cmd.Usage()
					return errHelp
				}
				conf.Auth.Secret = string(secret)
			}

			token, err := echoapi.GenerateToken(&conf, echoapi.NewClaims(&conf, sub, ttl))
			if err != nil {
				return err
			}
			fmt.Fprintln(cli.out, token)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "admin, company or investor")
	cmd.Flags().StringVar(&sub.UserID, "user", "", "user id (token subject)")
	cmd.Flags().StringVar(&sub.Email, "email", "", "user email")
	cmd.Flags().StringVar(&sub.Name, "name", "", "user display name")
	cmd.Flags().DurationVar(&ttl, "ttl", cli.conf.Auth.TokenTTL, "token lifetime")
	cmd.Flags().BoolVar(&askSecret, "ask-secret", false, "prompt for the signing secret instead of using the configured one")
	return cmd
}
