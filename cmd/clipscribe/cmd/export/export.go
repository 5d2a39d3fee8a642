package export

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"clipscribe/internal/app"
	"clipscribe/internal/app/export"
	"clipscribe/internal/config"
)

var accountEmail string
var outputFilePath string

func init() {
	Cmd.Flags().StringVarP(&accountEmail, "email", "e", "", "account email whose history to export")
	Cmd.Flags().StringVarP(&outputFilePath, "output", "o", "", "output xlsx file path")

	Cmd.MarkFlagRequired("email")
	Cmd.MarkFlagRequired("output")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export a user's transcript history to excel",
	Long: `Export a user's transcript history to excel

- Exports every transcript the account owns, newest first`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v\n", err)
		}

		db, closeDB, err := app.OpenDatabase(cfg)
		if err != nil {
			log.Fatalf("Failed to open database: %v\n", err)
		}
		defer closeDB()

		ctx := context.Background()
		users := app.NewUserRepository(cfg, db)
		transcripts := app.NewTranscriptRepository(cfg, db)

		user, err := users.GetByEmail(ctx, accountEmail)
		if err != nil {
			log.Fatalf("No account with email %s: %v\n", accountEmail, err)
		}

		history, err := transcripts.ListByUser(ctx, user.ID, 0)
		if err != nil {
			log.Fatal(err)
		}

		if err := export.ToExcel(history, outputFilePath); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("export finished, exported file path: %v\n", outputFilePath)
	},
}
