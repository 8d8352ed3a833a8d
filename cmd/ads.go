package cmd

import (
	"fmt"

	"adsreport-cli/internal/api"
	"adsreport-cli/internal/config"
	"adsreport-cli/internal/logger"
	"adsreport-cli/internal/report"

	"github.com/spf13/cobra"
)

var (
	adsCustomerID string
	adsGroupID    string
	adsPageSize   int
)

// newExecutor builds the query executor for a run; tests replace it.
var newExecutor = func(creds config.Credentials) report.QueryExecutor {
	return api.NewClient(creds, api.WithLogger(logger.Log), api.WithDebug(debug))
}

var adsCmd = &cobra.Command{
	Use:     "ads",
	Aliases: []string{"get-responsive-search-ads"},
	Short:   "List the expanded text ads of a customer",
	Long: `Lists the expanded text ads of a customer, optionally restricted to one ad group.
Examples:
  adsreport ads -c 123-456-7890
  adsreport ads -c 123-456-7890 -a 55`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := config.Load()
		if err != nil {
			return fmt.Errorf("%w. Configure it with: adsreport config set <key> <value>", err)
		}
		return runAds(cmd, newExecutor(creds))
	},
}

func runAds(cmd *cobra.Command, exec report.QueryExecutor) error {
	r := report.New(exec, cmd.OutOrStdout(), logger.Log)
	code, err := r.Run(cmd.Context(), report.Options{
		CustomerID: adsCustomerID,
		PageSize:   adsPageSize,
		AdGroupID:  adsGroupID,
	})
	if err != nil {
		return err
	}
	if code != report.ExitSuccess {
		return &exitError{code: code}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(adsCmd)
	adsCmd.Flags().StringVarP(&adsCustomerID, "customer_id", "c", "", "The Google Ads customer ID")
	adsCmd.Flags().StringVarP(&adsGroupID, "ad_group_id", "a", "", "The ad group ID")
	adsCmd.Flags().IntVar(&adsPageSize, "page_size", report.DefaultPageSize, "Rows per page requested from the API")
	adsCmd.MarkFlagRequired("customer_id")
}
