package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	siguaservices "github.com/grupovertice/intranet/modules/sigua/services"
)

func newCertificatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "certificates",
		Short: "Expire overdue certificates and announce upcoming expirations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, closeFn, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			sweep := app.Service(&siguaservices.CertificateSweep{}).(*siguaservices.CertificateSweep)
			result, err := sweep.RunOnce(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("expired=%d upcoming=%d\n", result.Expired, result.Upcoming)
			return nil
		},
	}
}

func newOrphansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orphans",
		Short: "Report access accounts whose login is missing from the HR roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, closeFn, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			sweep := app.Service(&siguaservices.OrphanSweep{}).(*siguaservices.OrphanSweep)
			result, err := sweep.RunOnce(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("checked=%d orphans=%d\n", result.Checked, len(result.Orphans))
			if len(result.Orphans) > 0 {
				fmt.Println(strings.Join(result.Orphans, "\n"))
			}
			return nil
		},
	}
}

func newActivityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activity",
		Short: "Report activity contexts with no entries inside their tolerance window",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, app, closeFn, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			sweep := app.Service(&siguaservices.ActivitySweep{}).(*siguaservices.ActivitySweep)
			result, err := sweep.RunOnce(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("checked=%d overdue=%d errors=%d\n", result.Checked, len(result.Overdue), result.Errors)
			if len(result.Overdue) > 0 {
				fmt.Println(strings.Join(result.Overdue, "\n"))
			}
			return nil
		},
	}
}
