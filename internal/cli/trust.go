package cli

import (
	"github.com/spf13/cobra"
)

func newTrustCommand(o *rootOptions) (*cobra.Command, error) {
	var (
		output     string
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "trust",
		Short: "Generate secrets with a random length (10-20) and random character classes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, done, err := o.newApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer done()

			count, err := cmd.Flags().GetInt("count")
			if err != nil {
				return err
			}
			encode, err := cmd.Flags().GetBool("base64")
			if err != nil {
				return err
			}
			res, err := app.TrustMe(cmd.Context(), count, encode)
			if err != nil {
				return err
			}
			o.log.Info("trust_settings", "length", res.Length, "classes", res.Classes, "encoded", res.Encoded)
			return o.emit(cmd, res.Secrets, output, noProgress)
		},
	}

	f := cmd.Flags()
	f.IntP("count", "c", o.v.GetInt(VGenerateCount), "Number of secrets to generate")
	f.Bool("base64", o.v.GetBool(VGenerateEncode), "Base64 encode each secret")
	f.StringVarP(&output, "output", "o", "", "Write secrets to this file (mode 0600) instead of stdout")
	f.BoolVar(&noProgress, "no-progress", false, "Disable the progress bar when writing to a file")
	return cmd, nil
}
