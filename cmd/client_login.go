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
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retr0h/reqwatch/internal/cli"
)

// clientLoginCmd represents the clientLogin command.
var clientLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Exchange credentials for a token",
	Long: `Log in with an email and password and print the issued token.
With --save[=path] the token is written to a file that later client
commands read through --token-file.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		resp, err := apiClient.Login(ctx, email, password)
		if err != nil {
			cli.HandleError(err, logger)
			return
		}

		if cmd.Flags().Changed("save") {
			path, _ := cmd.Flags().GetString("save")
			if err := saveToken(appFs, path, resp.Token); err != nil {
				cli.LogFatal(logger, "failed to save token", err, "path", path)
			}
			logger.Info("token saved", "path", path)
		}

		if jsonOutput {
			out, _ := json.Marshal(resp)
			fmt.Println(string(out))
			return
		}

		fmt.Println()
		cli.PrintKV("Email", resp.User.Email, "Role", string(resp.User.Role))
		cli.PrintKV("Token", resp.Token)
	},
}

func init() {
	clientCmd.AddCommand(clientLoginCmd)

	clientLoginCmd.PersistentFlags().StringP("email", "e", "", "Identity email")
	clientLoginCmd.PersistentFlags().StringP("password", "p", "", "Identity password")
	clientLoginCmd.PersistentFlags().String("save", defaultTokenPath(), "Write the token to this file")
	clientLoginCmd.PersistentFlags().Lookup("save").NoOptDefVal = defaultTokenPath()

	_ = clientLoginCmd.MarkPersistentFlagRequired("email")
	_ = clientLoginCmd.MarkPersistentFlagRequired("password")
}
