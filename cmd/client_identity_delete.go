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

// clientIdentityDeleteCmd represents the clientIdentityDelete command.
var clientIdentityDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove an identity",
	Long: `Remove an identity. Tokens already issued to it stop working
immediately; open streams end when they next reconnect.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		id, _ := cmd.Flags().GetString("id")

		if err := apiClient.DeleteIdentity(cmd.Context(), id); err != nil {
			cli.HandleError(err, logger)
			return
		}

		if jsonOutput {
			out, _ := json.Marshal(map[string]string{"id": id, "status": "deleted"})
			fmt.Println(string(out))
			return
		}

		fmt.Println()
		cli.PrintKV("ID", id, "Status", "deleted")
	},
}

func init() {
	clientIdentityCmd.AddCommand(clientIdentityDeleteCmd)

	clientIdentityDeleteCmd.PersistentFlags().
		String("id", "", "Identity ID to remove")

	_ = clientIdentityDeleteCmd.MarkPersistentFlagRequired("id")
}
