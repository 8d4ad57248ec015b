package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/app/routes"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/internal/server"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/router"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/ws"
)

func init() {
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return server.Serve()
			},
		},
		&cobra.Command{
			Use:   "route:list",
			Short: "Print every named route",
			RunE: func(cmd *cobra.Command, args []string) error {
				r := router.New()
				routes.Register(r, ws.NewHub())

				list := r.Routes()
				sort.Slice(list, func(i, j int) bool { return list[i].Path < list[j].Path })
				for _, info := range list {
					fmt.Printf("%-7s %-50s %s\n", info.Method, info.Path, info.Name)
				}
				return nil
			},
		},
	)
}
