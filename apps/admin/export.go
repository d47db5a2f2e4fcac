package main

import (
	"bytes"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/company"
	exportsvc "github.com/startupsl/backend/services/export"
)

func (cli *commandLine) exportCompaniesCmd() *cobra.Command {
	var out, email string

	cmd := &cobra.Command{
		Use:   "companies",
		Short: "Export every company to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := core.NowFunc().UTC()

			comps, err := cli.compSvc.QueryAll(cmd.Context())
			if err != nil {
				return err
			}
			company.SortByName(comps)
			data, err := exportsvc.Companies(comps)
			if err != nil {
				return err
			}

			if out == "" {
				out = "companies-" + now.Format("20060102") + ".xlsx"
			}
			if err = os.WriteFile(out, data, 0o644); err != nil {
				return errors.Wrap(err, "writing export")
			}
			fmt.Fprintf(cli.out, "exported %d companies to %s\n", len(comps), out)

			if email == "" {
				return nil
			}
			to, err := mail.ParseAddress(email)
			if err != nil {
				return errors.Wrap(err, "parsing --email")
			}
			msg := &core.EmailMessage{
				To:           []mail.Address{*to},
				Subject:      "Companies export",
				TemplateName: "companies_export",
				TemplateData: map[string]interface{}{
					"GeneratedAt": now.Format(time.RFC1123),
					"Count":       len(comps),
				},
			}
			if err = msg.Attach(bytes.NewReader(data), filepath.Base(out), exportsvc.ContentType); err != nil {
				return errors.Wrap(err, "attaching export")
			}
			cli.mailSvc.SendMessages(msg)
			fmt.Fprintf(cli.out, "sent to %s\n", to.Address)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default companies-YYYYMMDD.xlsx)")
	cmd.Flags().StringVar(&email, "email", "", "also email the workbook to this address")
	return cmd
}
