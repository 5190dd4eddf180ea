package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

func printSecrets(w io.Writer, secrets []string) error {
	bw := bufio.NewWriter(w)
	for _, s := range secrets {
		if _, err := fmt.Fprintln(bw, s); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// writeSecretsFile writes one secret per line to path with mode 0600. A
// progress bar is drawn on progress when it is non-nil.
func writeSecretsFile(path string, secrets []string, progress io.Writer) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	var pb *progressbar.ProgressBar
	if progress != nil {
		pb = progressbar.NewOptions(len(secrets),
			progressbar.OptionSetDescription("Writing secrets"),
			progressbar.OptionSetWriter(progress),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionClearOnFinish(),
		)
	}

	bw := bufio.NewWriter(f)
	for i, s := range secrets {
		if _, err := fmt.Fprintln(bw, s); err != nil {
			return fmt.Errorf("write output file: %w", err)
		}
		if pb != nil && (i%100 == 0 || i == len(secrets)-1) {
			_ = pb.Set(i + 1)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	if pb != nil {
		_ = pb.Finish()
	}
	return nil
}
