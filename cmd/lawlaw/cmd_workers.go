package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/internal/server"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/schedule"
)

func init() {
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "queue:work",
			Short: "Run queue consumers and the scheduler",
			RunE: func(cmd *cobra.Command, args []string) error {
				return server.RunWorkers()
			},
		},
		&cobra.Command{
			Use:   "schedule:run",
			Short: "Run only the scheduler",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := server.Boot(nil); err != nil {
					return err
				}
				server.RegisterSchedule()

				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				schedule.Start(ctx)
				<-ctx.Done()
				return nil
			},
		},
		&cobra.Command{
			Use:   "schedule:list",
			Short: "Print the registered scheduled tasks",
			RunE: func(cmd *cobra.Command, args []string) error {
				server.RegisterSchedule()
				for _, name := range schedule.List() {
					fmt.Println(name)
				}
				return nil
			},
		},
	)
}
