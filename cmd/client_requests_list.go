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
	"github.com/retr0h/reqwatch/internal/requestlog"
)

// clientRequestsListCmd represents the clientRequestsList command.
var clientRequestsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent requests, newest first",
	Long: `List the requests retained by the server, newest first. Without
--limit every retained entry is returned.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		limit, _ := cmd.Flags().GetInt("limit")

		entries, err := apiClient.ListRequests(ctx, limit)
		if err != nil {
			cli.HandleError(err, logger)
			return
		}

		if jsonOutput {
			out, _ := json.Marshal(entries)
			fmt.Println(string(out))
			return
		}

		title := fmt.Sprintf("Requests (%d)", len(entries))
		cli.PrintCompactTable([]cli.Section{cli.BuildRequestSection(title, entries)})
	},
}

func init() {
	clientRequestsCmd.AddCommand(clientRequestsListCmd)

	clientRequestsListCmd.PersistentFlags().
		IntP("limit", "l", requestlog.NoLimit, "Maximum number of entries to return")
}
