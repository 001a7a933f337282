package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/MacJediWizard/licensemaker/internal/license"
	"github.com/MacJediWizard/licensemaker/internal/licfile"
	"github.com/spf13/cobra"
)

func newDecodeCmd(a *app) *cobra.Command {
	var digestLen int

	cmd := &cobra.Command{
		Use:   "decode <file.lic|->",
		Short: "Print the contents of a license file",
		Long: `Decode a license file and print its JSON document.

The signature is split into padding and digest using --digest-len, or the
digest length of the configured signer. Decoding does not verify the
signature.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := readBlob(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			rec, err := license.Decode(blob)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			doc, err := rec.MarshalJSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(doc))
			fmt.Fprintf(out, "Scheme: %s\n", rec.Scheme())

			if digestLen == 0 {
				digestLen = a.configuredDigestLen()
			}
			if digestLen <= 0 {
				return nil
			}
			padding, digest, err := license.SplitSignature(rec.Signature, digestLen)
			if err != nil {
				fmt.Fprintf(out, "Signature: cannot split with digest length %d\n", digestLen)
				return nil
			}
			fmt.Fprintf(out, "Padding (%d): %s\n", len(padding), padding)
			fmt.Fprintf(out, "Digest  (%d): %s\n", len(digest), digest)
			return nil
		},
	}

	cmd.Flags().IntVar(&digestLen, "digest-len", 0, "digest length in hex characters (64 for sha256, 512 for RSA-2048)")

	return cmd
}

// configuredDigestLen returns the digest length of the configured signer, or
// zero when the key cannot be loaded.
func (a *app) configuredDigestLen() int {
	signer, err := license.NewSigner(a.cfg.KeyPath)
	if err != nil {
		a.logger.Debug().Err(err).Msg("cannot load signer for digest length")
		return 0
	}
	return signer.DigestLen()
}

func readBlob(stdin io.Reader, path string) (string, error) {
	if path != "-" {
		return licfile.Read(path)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
