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
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/retr0h/reqwatch/internal/api/health"
	"github.com/retr0h/reqwatch/internal/cli"
)

// clientHealthStatusCmd represents the clientHealthStatus command.
var clientHealthStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Server status and component health",
	Long: `Show per-component health, request history occupancy and the
number of live stream subscribers. Requires authentication.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		status, err := apiClient.HealthStatus(cmd.Context())
		if err != nil {
			cli.HandleError(err, logger)
			return
		}

		if jsonOutput {
			out, _ := json.Marshal(status)
			fmt.Println(string(out))
			return
		}

		displayStatusHealth(status)
	},
}

func displayStatusHealth(
	status *health.StatusResponse,
) {
	fmt.Println()
	cli.PrintKV("Status", status.Status, "Version", status.Version, "Uptime", status.Uptime)

	if status.RequestLog != nil {
		cli.PrintKV(
			"History", fmt.Sprintf("%d/%d", status.RequestLog.Size, status.RequestLog.Capacity),
			"Last ID", strconv.FormatInt(status.RequestLog.LastID, 10),
		)
	}

	if status.Stream != nil {
		cli.PrintKV("Subscribers", strconv.Itoa(status.Stream.Subscribers))
	}

	names := make([]string, 0, len(status.Components))
	for name := range status.Components {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		component := status.Components[name]
		errMsg := ""
		if component.Error != nil {
			errMsg = *component.Error
		}
		rows = append(rows, []string{name, component.Status, errMsg})
	}

	cli.PrintCompactTable([]cli.Section{{
		Title:   "Components",
		Headers: []string{"COMPONENT", "STATUS", "ERROR"},
		Rows:    rows,
	}})
}

func init() {
	clientHealthCmd.AddCommand(clientHealthStatusCmd)
}
