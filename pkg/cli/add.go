package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ethanCharter/floatlog/pkg/cli/internal/output"
	"github.com/ethanCharter/floatlog/pkg/logstore"
)

// addFlagVals is the package-level instance bound to cobra flags.
var addFlagVals addFlags

type addFlags struct {
	typ          string
	response     string
	query        string
	header       string
	data         string
	responseData string
	message      string
	curl         string
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Ingest one log entry into a running overlay server",
	Long: `Ingest one log entry. Fields not provided on the command line are
stored as the placeholder "-". This is the manual counterpart of an
HTTP interceptor posting to /logs.`,
	Example: `  # Record a request/response pair
  floatlog add --type GET --response 200 --message "users fetched"

  # Record with a replayable curl command
  floatlog add --type POST --response 201 \
    --data '{"name":"ada"}' \
    --curl "curl -X POST -d '{\"name\":\"ada\"}' http://api/users"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdd(cmd, &addFlagVals)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)

	f := &addFlagVals
	addCmd.Flags().StringVarP(&f.typ, "type", "t", "", "Request type (HTTP method)")
	addCmd.Flags().StringVarP(&f.response, "response", "r", "", "Response summary (e.g. status code)")
	addCmd.Flags().StringVar(&f.query, "query", "", "Query parameters")
	addCmd.Flags().StringVar(&f.header, "header", "", "Request headers")
	addCmd.Flags().StringVarP(&f.data, "data", "d", "", "Request body")
	addCmd.Flags().StringVar(&f.responseData, "response-data", "", "Response body")
	addCmd.Flags().StringVarP(&f.message, "message", "m", "", "Free-form note")
	addCmd.Flags().StringVar(&f.curl, "curl", "", "Shell-reproducible request command")
}

// runAdd builds a payload from the flags that were actually set and
// posts it. Unset flags stay absent so the server defaults them.
func runAdd(cmd *cobra.Command, f *addFlags) error {
	payload := logstore.Payload{}
	set := func(flag, key, value string) {
		if cmd.Flags().Changed(flag) {
			payload[key] = value
		}
	}
	set("type", logstore.KeyType, f.typ)
	set("response", logstore.KeyResponse, f.response)
	set("query", logstore.KeyQueryParameter, f.query)
	set("header", logstore.KeyHeader, f.header)
	set("data", logstore.KeyData, f.data)
	set("response-data", logstore.KeyResponseData, f.responseData)
	set("message", logstore.KeyMessage, f.message)
	set("curl", logstore.KeyCurl, f.curl)

	client := NewClientFromFlags()
	entry, err := client.AddLog(payload)
	if err != nil {
		return fmt.Errorf("%s", FormatConnectionError(err))
	}

	if jsonOutput {
		return output.JSON(entry)
	}
	fmt.Printf("Added: %s\n", entry)
	return nil
}
