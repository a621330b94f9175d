package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/halcyonmedia/site-services/internal/botcheck"
	"github.com/halcyonmedia/site-services/internal/formrelay"
)

func newRelay(cmd *cobra.Command, opts *rootOptions, path string, required []string) *formrelay.Relay {
	r := formrelay.New(strings.TrimRight(opts.apiURL, "/")+path, required, &http.Client{Timeout: opts.timeout})
	out := cmd.OutOrStdout()
	r.OnChange(func(s formrelay.Status, msg string) {
		if msg == "" {
			fmt.Fprintf(out, "%s\n", s)
			return
		}
		fmt.Fprintf(out, "%s: %s\n", s, msg)
	})
	return r
}

func newSubscribeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe EMAIL",
		Short: "Sign an address up for the newsletter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := newRelay(cmd, opts, "/api/newsletter", []string{"email"})
			r.Set("email", args[0])
			return r.Submit(cmd.Context())
		},
	}
}

func newInquireCmd(opts *rootOptions) *cobra.Command {
	var f struct {
		first, last, company, email, phone, message, source, botToken string
	}
	cmd := &cobra.Command{
		Use:   "inquire",
		Short: "Submit a sponsorship inquiry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := newRelay(cmd, opts, "/api/sponsor-inquiry", []string{"firstName", "lastName", "company", "email"})
			for k, v := range map[string]string{
				"firstName": f.first,
				"lastName":  f.last,
				"company":   f.company,
				"email":     f.email,
				"phone":     f.phone,
				"message":   f.message,
				"source":    f.source,
			} {
				if v != "" {
					r.Set(k, v)
				}
			}
			if f.botToken != "" {
				r.SetHeader(botcheck.HeaderName, f.botToken)
			}
			return r.Submit(cmd.Context())
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.first, "first", "", "first name")
	fl.StringVar(&f.last, "last", "", "last name")
	fl.StringVar(&f.company, "company", "", "company")
	fl.StringVar(&f.email, "email", "", "contact email")
	fl.StringVar(&f.phone, "phone", "", "phone number")
	fl.StringVar(&f.message, "message", "", "message")
	fl.StringVar(&f.source, "source", "sitectl", "source tag")
	fl.StringVar(&f.botToken, "bot-token", "", "bot-check token")
	return cmd
}
