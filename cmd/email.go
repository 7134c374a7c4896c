package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/spotify-history-tools/internal/analysis"
	"github.com/ademuri/spotify-history-tools/internal/enrich"
)

type SendEmailConfig struct {
	From           string
	To             string
	SendGridAPIKey string
	DryRun         bool
	Start          time.Time
	End            time.Time
}

var emailCmd = &cobra.Command{
	Use:   "email <address> [date] [date]",
	Short: "Emails a listening report",
	Long: `Emails the report for the given date range to the specified address.
Date strings look like 'yyyy', 'yyyy-mm', or 'yyyy-mm-dd'. If no dates are
provided, defaults to the previous month.`,
	Args: cobra.RangeArgs(1, 3),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		var start, end time.Time
		var err error
		if len(args) > 1 {
			start, end, err = parseDateRangeFromArgs(args[1:])
			if err != nil {
				fmt.Printf("Error parsing dates: %v\n", err)
				os.Exit(1)
			}
		} else {
			// Default to last month
			now := time.Now()
			start = time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, time.UTC)
			end = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		}

		config := SendEmailConfig{
			From:           viper.GetString("from"),
			To:             args[0],
			SendGridAPIKey: viper.GetString("sendgrid_api_key"),
			DryRun:         viper.GetBool("dryRun"),
			Start:          start,
			End:            end,
		}
		err = sendEmail(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)

	var dryRun bool
	emailCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("dryRun", emailCmd.Flags().Lookup("dry_run"))

	var sendgridAPIKey string
	emailCmd.Flags().StringVar(&sendgridAPIKey, "sendgrid_api_key", "", "SendGrid API key")
	viper.BindPFlag("sendgrid_api_key", emailCmd.Flags().Lookup("sendgrid_api_key"))

	var from string
	emailCmd.Flags().StringVar(&from, "from", "", "From email address")
	viper.BindPFlag("from", emailCmd.Flags().Lookup("from"))
}

func sendEmail(config SendEmailConfig) error {
	events, err := loadEvents()
	if err != nil {
		return err
	}
	events = filterRange(events, config.Start, config.End)

	report := analysis.GenerateReport(events, analysis.Options{
		ArtistGenres: enrich.OfflineGenres(events),
	})

	subject, out := generateEmailContent(config, report)

	if config.DryRun {
		fmt.Printf("Would have sent email: \nsubject: %s\n%s\n", subject, out)
		return nil
	}

	if config.SendGridAPIKey == "" {
		return fmt.Errorf("sendgrid_api_key must be set in order to send emails")
	}

	from := mail.NewEmail("spotify-history-tools", config.From)
	to := mail.NewEmail(config.To, config.To)
	message := mail.NewSingleEmail(from, subject, to, subject, out)
	client := sendgrid.NewSendClient(config.SendGridAPIKey)
	if _, err := client.Send(message); err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}
	return nil
}

func generateEmailContent(config SendEmailConfig, report analysis.Report) (subject string, body string) {
	out := `
<html>
  <head>
<style>
td {
  padding: 0.1em 0.2em;
}
table, th, td {
  border: 1px solid black;
  border-collapse: collapse;
}
</style>
  </head>
  <body>
`

	out += fmt.Sprintf("<h2>Listening from %s to %s</h2>\n",
		config.Start.Format("2006-01-02"), config.End.Format("2006-01-02"))

	if report.Overview.TotalStreams == 0 {
		out += "<div>No listens found.</div>\n"
	} else {
		out += fmt.Sprintf("<div>%.1f hours over %d streams, %d artists, %d tracks.</div>\n",
			report.Overview.TotalHours, report.Overview.TotalStreams,
			report.Overview.UniqueArtists, report.Overview.UniqueTracks)

		out += "<h3>Top artists</h3>\n"
		out += rankingTable(report.TopArtists)
		out += "<h3>Top tracks</h3>\n"
		out += rankingTable(report.TopTracks)

		out += fmt.Sprintf("<div>Listening style: %s. Peak hour: %s.</div>\n",
			report.Personality.Style, report.Personality.PeakHour)
		out += fmt.Sprintf("<div>%s</div>\n", report.Weekend.Interpretation)
	}

	out += `
  </body>
</html>
`

	subject = fmt.Sprintf("Listening report %s to %s",
		config.Start.Format("2006-01-02"), config.End.Format("2006-01-02"))
	return subject, out
}

func rankingTable(ranked []analysis.RankedItem) string {
	if len(ranked) == 0 {
		return "<div>No listens found.</div>\n"
	}
	out := `<table>
	<thead>
		<tr><th>Rank</th><th>Name</th><th>Hours</th></tr>
	</thead>
	<tbody>
`
	for i, item := range ranked {
		out += fmt.Sprintf("<tr><td>%d</td><td>%s</td><td>%.1f</td></tr>\n", i+1, item.Name, item.Hours)
	}
	out += `	</tbody>
</table>
`
	return out
}
