package commands

import (
	"context"
	"log/slog"
	"os"
	"time"
	"vtopassist/lib/configutil"
	"vtopassist/lib/scrapers/vtop"
	"vtopassist/lib/serviceutil"
	"vtopassist/services/studentdata"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type Config struct {
	BaseUrl  string `json:"base_url"`
	Username string `json:"username"`
	Password string `json:"password"`
	Semester string `json:"semester"`
}

var fetchRefresh *bool

func init() {
	fetchRefresh = fetchCmd.Flags().Bool("refresh", false, "Bypass the session cache.")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [resource...]",
	Short: "Logs in and fetches the given resources (defaults to attendance).",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[Config]("config.json5")
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		kinds := []studentdata.ResourceKind{studentdata.KindAttendance}
		if len(args) > 0 {
			kinds = kinds[:0]
			for _, arg := range args {
				kinds = append(kinds, studentdata.ResourceKind(arg))
			}
		}

		service := studentdata.NewService(studentdata.Options{
			BaseUrl: cfg.BaseUrl,
		})
		defer service.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute*3)
		defer cancel()

		slog.Info("logging in", "username", cfg.Username)
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

		t1 := time.Now()
		results, err := service.FetchResources(ctx, login.SessionId, kinds, studentdata.FetchOptions{
			SemesterId: cfg.Semester,
			Refresh:    *fetchRefresh,
		})
		if err != nil {
			serviceutil.Fatal("failed to fetch resources", err)
		}
		slog.Info("fetch time", "seconds", time.Since(t1).Seconds())

		for kind, result := range results {
			if result.Err != nil {
				slog.Error("resource failed", "kind", kind, "err", result.Err)
				continue
			}
			renderResult(kind, result.Data)
		}
	},
}

func renderResult(kind studentdata.ResourceKind, data any) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(string(kind))

	switch records := data.(type) {
	case []vtop.AttendanceRow:
		t.AppendHeader(table.Row{"Course", "Attended", "Total", "%", "Status", "Action"})
		for _, row := range records {
			t.AppendRow(table.Row{
				row.CourseDetail, row.Attended, row.Total,
				row.Percentage, row.Status, row.Action,
			})
		}
	case []vtop.AssignmentCourse:
		t.AppendHeader(table.Row{"Course", "Assignment", "Due", "Status"})
		for _, course := range records {
			for _, item := range course.Assignments {
				t.AppendRow(table.Row{course.CourseCode, item.Title, item.DueDate, item.Status})
			}
		}
	case []vtop.CourseMark:
		t.AppendHeader(table.Row{"Course", "Assessment", "Scored", "Max"})
		for _, course := range records {
			for _, mark := range course.Assessments {
				t.AppendRow(table.Row{course.CourseCode, mark.Title, mark.Scored, mark.Max})
			}
		}
	case map[string]string:
		t.AppendHeader(table.Row{"Field", "Value"})
		for field, value := range records {
			t.AppendRow(table.Row{field, value})
		}
	default:
		slog.Info("fetched resource", "kind", kind, "data", data)
		return
	}

	t.Render()
}
