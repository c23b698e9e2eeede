package cmd

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/spf13/cobra"
)

var HelpersCmd = &cobra.Command{
	Use:   "helpers",
	Short: "Helper utilities for notification-store",
	Long:  "Collection of helper utilities for setting up a notification-store deployment",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Available helpers:")
		fmt.Fprintln(out, "  generate-secret - Generate a shared API secret")
		fmt.Fprintln(out, "  generate-vapid-keys - Generate a VAPID key pair for the dispatch service")
		fmt.Fprintln(out, "Use 'notification-store helpers --help' for more information about available subcommands.")
	},
}

var generateSecretCmd = &cobra.Command{
	Use:   "generate-secret",
	Short: "Generate a shared API secret",
	Long: `Generate a random hex encoded secret suitable for API_SECRET.

The same value must be configured on the dispatch service, which uses it
both to call this server and to authenticate the trigger it receives.`,
	RunE: runGenerateSecret,
}

var generateVAPIDKeysCmd = &cobra.Command{
	Use:   "generate-vapid-keys",
	Short: "Generate a VAPID key pair for the dispatch service",
	Long: `Generate an ECDSA P-256 VAPID key pair encoded as unpadded base64url.

The public key is handed to browsers when they subscribe; the private key is
configured on the dispatch service that signs push requests.`,
	RunE: runGenerateVAPIDKeys,
}

var secretBytes int

func init() {
	generateSecretCmd.Flags().IntVar(&secretBytes, "bytes", 32, "Number of random bytes in the secret")

	HelpersCmd.AddCommand(generateSecretCmd)
	HelpersCmd.AddCommand(generateVAPIDKeysCmd)
}

func runGenerateSecret(cmd *cobra.Command, args []string) error {
	secret, err := generateSecret(secretBytes)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "API_SECRET=%s\n", secret)
	return nil
}

func generateSecret(n int) (string, error) {
	if n < 16 {
		return "", fmt.Errorf("secret must be at least 16 bytes, got %d", n)
	}
	randomBytes := make([]byte, n)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(randomBytes), nil
}

func runGenerateVAPIDKeys(cmd *cobra.Command, args []string) error {
	privateKey, publicKey, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		return fmt.Errorf("failed to generate VAPID keys: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "VAPID_PUBLIC_KEY=%s\n", publicKey)
	fmt.Fprintf(out, "VAPID_PRIVATE_KEY=%s\n", privateKey)
	return nil
}
