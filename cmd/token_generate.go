// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/retr0h/reqwatch/internal/authtoken"
	"github.com/retr0h/reqwatch/internal/cli"
)

// TokenGenerator generates signed JWT tokens.
type TokenGenerator interface {
	Generate(
		signingKey string,
		roles []authtoken.Role,
		subject string,
	) (string, error)
}

// tokenGenerateCmd represents the tokenGenerate command.
var tokenGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new token",
	Long: `Generate a token for a subject with the given roles. The server only
accepts tokens whose subject is a registered identity.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		signingKey := appConfig.API.Server.Security.SigningKey
		roleNames, _ := cmd.Flags().GetStringSlice("roles")
		subject, _ := cmd.Flags().GetString("subject")

		roles, err := authtoken.ParseRoles(roleNames)
		if err != nil {
			cli.LogFatal(logger, "invalid roles", err, "allowed", authtoken.RoleNames())
		}

		var tg TokenGenerator = authtoken.New(
			logger,
			authtoken.WithTTL(appConfig.API.Server.Security.TokenTTL),
		)
		tokin, err := tg.Generate(signingKey, roles, subject)
		if err != nil {
			cli.LogFatal(logger, "failed to generate token", err)
		}

		logger.Info(
			"generated token",
			slog.String("token", tokin),
			slog.String("roles", strings.Join(roleNames, ",")),
			slog.String("subject", subject),
		)
	},
}

func init() {
	tokenCmd.AddCommand(tokenGenerateCmd)

	usage := fmt.Sprintf(
		"Roles for the token (allowed: %s)",
		strings.Join(authtoken.RoleNames(), ", "),
	)

	tokenGenerateCmd.PersistentFlags().
		StringSliceP("roles", "r", []string{string(authtoken.RoleUser)}, usage)
	tokenGenerateCmd.PersistentFlags().
		StringP("subject", "u", "", "Subject for the token (the identity's email)")

	_ = tokenGenerateCmd.MarkPersistentFlagRequired("subject")
}
