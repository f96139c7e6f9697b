package commands

import (
	"context"
	"os"
	"strings"
	"time"
	"vtopassist/lib/configutil"
	"vtopassist/lib/scrapers/vtop"
	"vtopassist/lib/serviceutil"
	"vtopassist/services/studentdata"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var facultyLimit *int

func init() {
	facultyLimit = facultyCmd.Flags().Int("limit", 5, "Maximum number of matches to print.")
	rootCmd.AddCommand(facultyCmd)
}

var facultyCmd = &cobra.Command{
	Use:   "faculty <query...>",
	Short: "Fuzzy-searches the faculty directory.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[Config]("config.json5")
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		service := studentdata.NewService(studentdata.Options{
			BaseUrl: cfg.BaseUrl,
		})
		defer service.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute*3)
		defer cancel()

		login, err := service.Login(ctx, studentdata.Credentials{
			Username: cfg.Username,
			Password: cfg.Password,
		})
		if err != nil {
			serviceutil.Fatal("failed to login", err)
		}
		if !login.Success {
			serviceutil.Fatal("failed to login", vtop.ErrLoginFailed)
		}
		defer service.Logout(ctx, login.SessionId)

		matches, err := service.SearchFaculty(ctx, login.SessionId, strings.Join(args, " "), *facultyLimit)
		if err != nil {
			serviceutil.Fatal("failed to search faculty", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Name", "Designation", "School", "Email", "Cabin"})
		for _, profile := range matches {
			t.AppendRow(table.Row{
				profile.Name, profile.Designation, profile.School,
				profile.Email, profile.Cabin,
			})
		}
		t.Render()
	},
}
