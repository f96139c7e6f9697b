package commands

import (
	"fmt"
	"os"
	"vtopassist/lib/captcha"
	"vtopassist/lib/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(captchaCmd)
}

var captchaCmd = &cobra.Command{
	Use:   "captcha <path/to/image>",
	Short: "Runs the captcha solver on a saved image, useful for eyeballing accuracy.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		imageBytes, err := os.ReadFile(args[0])
		if err != nil {
			serviceutil.Fatal("failed to read image", err)
		}
		guess, err := captcha.Solve(imageBytes)
		if err != nil {
			serviceutil.Fatal("failed to solve captcha", err)
		}
		fmt.Println(guess)
	},
}
