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
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retr0h/reqwatch/internal/cli"
	"github.com/retr0h/reqwatch/internal/client"
	"github.com/retr0h/reqwatch/internal/requestlog"
)

// clientRequestsTailCmd represents the clientRequestsTail command.
var clientRequestsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow requests as they are handled",
	Long: `Open the live request stream and print each entry as the server
records it. Runs until interrupted or the server closes the stream.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		err := apiClient.TailRequests(ctx, func(entry requestlog.Entry) error {
			if jsonOutput {
				out, err := json.Marshal(entry)
				if err != nil {
					return err
				}
				fmt.Println(string(out))
				return nil
			}

			cli.PrintEntry(entry)
			return nil
		})

		switch {
		case errors.Is(err, client.ErrStreamRejected):
			cli.LogFatal(logger, "stream rejected, check the bearer token", err)
		case err != nil:
			cli.LogFatal(logger, "stream failed", err)
		}
	},
}

func init() {
	clientRequestsCmd.AddCommand(clientRequestsTailCmd)
}
