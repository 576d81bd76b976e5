package raw

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tastectl/cli/internal/app"
	"github.com/tastectl/cli/internal/format"
	"github.com/tastectl/cli/internal/gateway"
)

// RawCmd represents the raw command
var RawCmd = &cobra.Command{
	Use:   "raw <method> <path>",
	Short: "Perform a raw API request",
	Long: `Perform a raw API request against the configured server.

The request still goes through the gateway (auth header, error
classification), but the response body is returned verbatim instead
of being interpreted as the standard {code, data, message} envelope.
Useful for the few endpoints that do not follow the convention.`,
	Args: cobra.ExactArgs(2),
	RunE: runRaw,
}

func runRaw(cmd *cobra.Command, args []string) error {
	method := strings.ToUpper(args[0])
	path := args[1]
	body, _ := cmd.Flags().GetString("data")
	envelope, _ := cmd.Flags().GetBool("envelope")

	a, err := app.New()
	if err != nil {
		return err
	}
	defer a.Close()

	req := gateway.Request{
		Method: method,
		Path:   path,
		Raw:    !envelope,
	}
	if body != "" {
		var parsed interface{}
		if err := json.Unmarshal([]byte(body), &parsed); err != nil {
			return fmt.Errorf("--data is not valid JSON: %w", err)
		}
		req.Body = parsed
	}

	data, err := a.Gateway.Do(req)
	if err != nil {
		return err
	}

	fmt.Fprintln(format.Out, string(data))
	return nil
}

func init() {
	RawCmd.Flags().StringP("data", "d", "", "JSON request body")
	RawCmd.Flags().Bool("envelope", false, "Interpret the response as the standard envelope")
}
